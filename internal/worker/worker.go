package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/megapdv/internal/jobs"
	"github.com/dukerupert/megapdv/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often every job is run
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int

	// JobTimeout bounds a single job run
	JobTimeout time.Duration
}

// Worker runs periodic background jobs
type Worker struct {
	config Config
	jobs   []jobs.Job
	logger *slog.Logger

	wg sync.WaitGroup
}

// NewWorker creates a new background job worker
func NewWorker(config Config, logger *slog.Logger, registered ...jobs.Job) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Minute
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 2
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config: config,
		jobs:   registered,
		logger: logger,
	}
}

// Start runs every job once per PollInterval until the context is cancelled.
// It waits for in-flight jobs before returning.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"jobs", len(w.jobs),
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Semaphore for concurrency control
	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			w.wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			for _, job := range w.jobs {
				select {
				case sem <- struct{}{}:
					w.wg.Add(1)
					go func(job jobs.Job) {
						defer w.wg.Done()
						defer func() { <-sem }()
						w.RunJob(ctx, job)
					}(job)
				default:
					// At max concurrency, skip this job until the next tick
					w.logger.Debug("worker busy, skipping job", "job_type", job.Type())
				}
			}
		}
	}
}

// RunJob runs a single job with the configured timeout, logging the outcome.
// Failures are reported to Sentry and never stop the worker.
func (w *Worker) RunJob(ctx context.Context, job jobs.Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := w.processJob(jobCtx, job); err != nil {
		w.logger.Error("job failed",
			"job_type", job.Type(),
			"worker_id", w.config.WorkerID,
			"error", err,
		)
		telemetry.CaptureError(err, map[string]interface{}{
			"job_type":  job.Type(),
			"worker_id": w.config.WorkerID,
		})
		return
	}

	w.logger.Debug("job completed",
		"job_type", job.Type(),
		"duration", time.Since(start),
	)
}

// processJob runs job, converting a panic into an error
func (w *Worker) processJob(ctx context.Context, job jobs.Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Type(), rec)
		}
	}()
	return job.Run(ctx)
}
