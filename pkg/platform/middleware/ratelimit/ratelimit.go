// Package ratelimit throttles requests per authenticated actor with token
// buckets from golang.org/x/time/rate.
package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"hospital/pkg/platform/httputil"
	"hospital/pkg/requestcontext"
)

const (
	defaultMaxKeys = 4096
	defaultIdleTTL = 30 * time.Minute
)

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Middleware holds one bucket per actor. Buckets idle longer than the TTL
// are evicted; a returning actor starts with a full bucket.
type Middleware struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex // serializes bucket creation
	buckets  *expirable.LRU[string, *rate.Limiter]
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns the middleware into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithCapacity bounds how many actors are tracked and for how long.
func WithCapacity(maxKeys int, idle time.Duration) Option {
	return func(m *Middleware) {
		m.buckets = expirable.NewLRU[string, *rate.Limiter](maxKeys, nil, idle)
	}
}

// New allows perSecond requests per actor with the given burst. A
// non-positive rate disables limiting.
func New(perSecond float64, burst int, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limit:   rate.Limit(perSecond),
		burst:   max(burst, 1),
		buckets: expirable.NewLRU[string, *rate.Limiter](defaultMaxKeys, nil, defaultIdleTTL),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if perSecond <= 0 {
		m.disabled = true
	}
	if m.disabled {
		logger.Info("admin write rate limiting disabled")
	}
	return m
}

func (m *Middleware) bucket(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.buckets.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(m.limit, m.burst)
	m.buckets.Add(key, l)
	return l
}

// PerActor limits by authenticated username, falling back to client IP.
// It must run after the auth middleware.
func (m *Middleware) PerActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := requestcontext.Username(ctx)
		if key == "" {
			key = "ip:" + requestcontext.ClientIP(ctx)
		}

		l := m.bucket(key)
		res := l.Reserve()
		delay := res.Delay()
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(l.Tokens()), 0)))
		if delay > 0 {
			res.Cancel()
			retryAfter := int(math.Ceil(delay.Seconds()))
			m.logger.WarnContext(ctx, "admin write rate limit exceeded",
				"actor", key,
				"retry_after", retryAfter,
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many permission changes. Please try again later.",
				RetryAfter: retryAfter,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
