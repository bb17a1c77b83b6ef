package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Type() string { return "test:counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

type panickingJob struct{}

func (panickingJob) Type() string                  { return "test:panic" }
func (panickingJob) Run(ctx context.Context) error { panic("boom") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(Config{}, nil)

	assert.Contains(t, w.config.WorkerID, "worker-")
	assert.Equal(t, time.Minute, w.config.PollInterval)
	assert.Equal(t, 2, w.config.MaxConcurrency)
	assert.Equal(t, 30*time.Second, w.config.JobTimeout)
}

func TestWorker_RunsJobsUntilCancelled(t *testing.T) {
	job := &countingJob{}
	failing := &countingJob{err: errors.New("store unavailable")}
	w := NewWorker(Config{PollInterval: 5 * time.Millisecond}, discardLogger(), job, failing)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool {
		return job.runs.Load() >= 2 && failing.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_RunJobRecoversPanic(t *testing.T) {
	w := NewWorker(Config{}, discardLogger())

	assert.NotPanics(t, func() {
		w.RunJob(context.Background(), panickingJob{})
	})

	err := w.processJob(context.Background(), panickingJob{})
	assert.ErrorContains(t, err, "test:panic panicked")
}
