// Package jobs holds the periodic maintenance tasks run by the worker.
package jobs

import "context"

// Job is a unit of background work run on every worker tick.
type Job interface {
	// Type identifies the job in logs, e.g. "cleanup:idle_sessions"
	Type() string

	Run(ctx context.Context) error
}
