package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled by flag", func(t *testing.T) {
		cleanup, err := InitSentry(SentryConfig{Enabled: false}, logger)
		require.NoError(t, err)
		require.NotNil(t, cleanup)
		cleanup()
		assert.False(t, IsEnabled())
	})

	t.Run("enabled without DSN falls back to disabled", func(t *testing.T) {
		cleanup, err := InitSentry(SentryConfig{Enabled: true}, logger)
		require.NoError(t, err)
		cleanup()
		assert.False(t, IsEnabled())
	})
}

func TestSentryHelpers_NoopWhenDisabled(t *testing.T) {
	_, _ = InitSentry(SentryConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		CaptureError(errors.New("boom"), map[string]interface{}{"sale_id": "V001"})
		CaptureErrorFromContext(context.Background(), errors.New("boom"), nil)
		AddBreadcrumb("checkout", "finalize", nil)
		_, finish := StartSpan(context.Background(), "report.pdf", "export")
		finish()
	})

	called := false
	h := SentryMiddleware()(SentryUserMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
