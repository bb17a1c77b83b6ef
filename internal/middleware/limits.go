package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Request limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize caps JSON request bodies. Product and user forms
	// and cart updates are all far below it.
	DefaultMaxBodySize = 1 * MB

	// DefaultTimeout bounds request processing
	DefaultTimeout = 30 * time.Second
)

// MaxBodySize limits the size of request bodies.
// If no size is provided, DefaultMaxBodySize is used.
// Requests that declare a larger Content-Length get 413 immediately; bodies
// that grow past the limit fail when the handler reads them.
func MaxBodySize(maxBytes ...int64) func(http.Handler) http.Handler {
	limit := int64(DefaultMaxBodySize)
	if len(maxBytes) > 0 && maxBytes[0] > 0 {
		limit = maxBytes[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > limit {
				respondTooLarge(w, r, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout adds a deadline to request processing.
// If no duration is provided, DefaultTimeout is used.
// When the handler has not started writing by the deadline the client
// receives a JSON error; a handler that already wrote keeps its response.
// The handler writes headers into its own map, which reaches the client
// only when the response is committed, so a handler still running after
// the deadline never shares a header map with the timeout response.
func Timeout(timeout ...time.Duration) func(http.Handler) http.Handler {
	duration := DefaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		duration = timeout[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			done := make(chan struct{})
			tw := &timeoutWriter{w: w, h: make(http.Header)}

			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.wroteHeader {
					tw.commit(http.StatusOK)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()

				tw.timedOut = true
				if !tw.wroteHeader {
					w.Header().Set("Connection", "close")
					respondTimeout(w, r)
				}
			}
		})
	}
}

// timeoutWriter buffers headers until the first write and drops writes
// once the request has timed out.
type timeoutWriter struct {
	w http.ResponseWriter
	h http.Header

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

// Header returns the handler's private header map. It is only read by
// commit, under mu.
func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

// commit copies the buffered headers and writes the status. Callers hold mu.
func (tw *timeoutWriter) commit(code int) {
	tw.wroteHeader = true
	dst := tw.w.Header()
	for k, v := range tw.h {
		dst[k] = append([]string(nil), v...)
	}
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader || tw.timedOut {
		return
	}
	tw.commit(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, context.DeadlineExceeded
	}
	if !tw.wroteHeader {
		tw.commit(http.StatusOK)
	}
	return tw.w.Write(b)
}
