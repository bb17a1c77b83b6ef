package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL     string
	Subject string
	Name    string
}

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher connects to the broker. Reconnects are handled by the client.
func NewNATSPublisher(cfg NATSConfig, logger *slog.Logger) (*NATSPublisher, error) {
	if cfg.Subject == "" {
		cfg.Subject = SubjectSaleCompleted
	}
	if cfg.Name == "" {
		cfg.Name = "megapdv"
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSPublisher{
		conn:    conn,
		subject: cfg.Subject,
		logger:  logger,
	}, nil
}

// PublishSaleCompleted publishes the sale on the configured subject.
func (p *NATSPublisher) PublishSaleCompleted(ctx context.Context, sale domain.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewSaleCompleted(sale))
	if err != nil {
		return fmt.Errorf("failed to encode sale event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Sale-Id", sale.ID)
	if reqID := domain.RequestIDFromContext(ctx); reqID != "" {
		msg.Header.Set("X-Request-ID", reqID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish sale event: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain nats connection: %w", err)
	}
	return nil
}
