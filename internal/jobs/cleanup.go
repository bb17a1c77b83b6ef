package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Job type constants for cleanup jobs
const (
	JobTypeCleanupIdleSessions = "cleanup:idle_sessions"
)

// DefaultSessionMaxIdle is how long a register session may sit untouched
// before it is abandoned.
const DefaultSessionMaxIdle = 8 * time.Hour

// SessionPruner abandons idle checkout sessions.
type SessionPruner interface {
	PruneIdle(ctx context.Context, maxIdle time.Duration) int
}

// CleanupIdleSessions discards checkout sessions left open by cashiers who
// walked away from the register. Their carts are dropped without a sale.
type CleanupIdleSessions struct {
	pruner  SessionPruner
	maxIdle time.Duration
	logger  *slog.Logger
}

// NewCleanupIdleSessions creates the job. A zero maxIdle uses DefaultSessionMaxIdle.
func NewCleanupIdleSessions(pruner SessionPruner, maxIdle time.Duration, logger *slog.Logger) *CleanupIdleSessions {
	if maxIdle <= 0 {
		maxIdle = DefaultSessionMaxIdle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupIdleSessions{
		pruner:  pruner,
		maxIdle: maxIdle,
		logger:  logger,
	}
}

func (j *CleanupIdleSessions) Type() string {
	return JobTypeCleanupIdleSessions
}

// Run prunes sessions idle for longer than the configured limit.
func (j *CleanupIdleSessions) Run(ctx context.Context) error {
	n := j.pruner.PruneIdle(ctx, j.maxIdle)

	j.logger.Debug("idle session cleanup finished", "pruned", n)
	return nil
}
