package ratelimit

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"hospital/pkg/requestcontext"
)

func newRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/permissions", nil)
	return req.WithContext(requestcontext.WithActor(req.Context(), username, "ADMIN"))
}

func TestPerActor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("burst then reject", func(t *testing.T) {
		h := New(0.001, 2, logger).PerActor(ok)

		for range 2 {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, newRequest("carlos"))
			assert.Equal(t, http.StatusOK, rr.Code)
		}

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, newRequest("carlos"))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), "rate_limit_exceeded")
	})

	t.Run("buckets are per actor", func(t *testing.T) {
		h := New(0.001, 1, logger).PerActor(ok)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, newRequest("carlos"))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, newRequest("lucia"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("concurrent first requests share one bucket", func(t *testing.T) {
		const burst, workers = 3, 32
		h := New(0.001, burst, logger).PerActor(ok)

		var passed atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				rr := httptest.NewRecorder()
				h.ServeHTTP(rr, newRequest("carlos"))
				if rr.Code == http.StatusOK {
					passed.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(burst), passed.Load())
	})

	t.Run("non positive rate disables", func(t *testing.T) {
		h := New(0, 1, logger).PerActor(ok)
		for range 5 {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, newRequest("carlos"))
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})
}
