package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/megapdv/internal/service"
)

const (
	JobTypeStockSnapshot = "report:stock_snapshot"
)

// StockSnapshot refreshes the stock gauges and warns when products run out.
// ProductService.StockStats publishes the out-of-stock gauge as a side effect.
type StockSnapshot struct {
	products service.ProductService
	logger   *slog.Logger
}

// NewStockSnapshot creates the job
func NewStockSnapshot(products service.ProductService, logger *slog.Logger) *StockSnapshot {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockSnapshot{
		products: products,
		logger:   logger,
	}
}

func (j *StockSnapshot) Type() string {
	return JobTypeStockSnapshot
}

func (j *StockSnapshot) Run(ctx context.Context) error {
	stats, err := j.products.StockStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stock stats: %w", err)
	}

	if stats.OutOfStock > 0 {
		j.logger.Warn("products out of stock",
			"out_of_stock", stats.OutOfStock,
			"low_stock", stats.LowStock,
			"total", stats.Total,
		)
	}
	return nil
}
