// Package cache wraps an override reader with a read-through cache.
//
// Entries are keyed by scope: one entry per role and one per username, each
// holding every override at that key. The administration service invalidates
// the affected scope after each committed mutation. Backend failures never
// fail a read; the reader falls through to the store.
//
// Every invalidation moves the key to a new generation. A reader records the
// generation before loading from the store and the backend only stores the
// loaded list if the generation is unchanged, so a load that raced a commit
// is served once and never cached.
package cache

import (
	"context"
	"log/slog"

	"hospital/internal/access/metrics"
	"hospital/internal/access/models"
	"hospital/internal/access/store/override"
)

const keyPrefix = "hospital:overrides:"

// Backend stores override lists by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]*models.Override, bool, error)
	// Generation returns an opaque token that changes whenever key is
	// deleted or the backend is purged.
	Generation(ctx context.Context, key string) (string, error)
	// SetIfGeneration stores overrides only while key is still at gen.
	SetIfGeneration(ctx context.Context, key, gen string, overrides []*models.Override) (bool, error)
	// Delete and Purge advance the generation of the keys they drop.
	Delete(ctx context.Context, keys ...string) error
	Purge(ctx context.Context) error
	Name() string
}

// Reader is a caching override.Reader.
type Reader struct {
	inner   override.Reader
	backend Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Reader)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reader) {
		r.metrics = m
	}
}

func New(inner override.Reader, backend Backend, opts ...Option) *Reader {
	r := &Reader{inner: inner, backend: backend}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func roleKey(role models.Role) string {
	return keyPrefix + "role:" + string(role)
}

func userKey(username string) string {
	return keyPrefix + "user:" + username
}

func (r *Reader) ListByRole(ctx context.Context, role models.Role) ([]*models.Override, error) {
	return r.readThrough(ctx, roleKey(role), func() ([]*models.Override, error) {
		return r.inner.ListByRole(ctx, role)
	})
}

func (r *Reader) ListByUsername(ctx context.Context, username string) ([]*models.Override, error) {
	return r.readThrough(ctx, userKey(username), func() ([]*models.Override, error) {
		return r.inner.ListByUsername(ctx, username)
	})
}

func (r *Reader) readThrough(ctx context.Context, key string, load func() ([]*models.Override, error)) ([]*models.Override, error) {
	cached, ok, err := r.backend.Get(ctx, key)
	if err != nil {
		r.warn(ctx, "override cache read failed", key, err)
	}
	if ok {
		if r.metrics != nil {
			r.metrics.IncrementCacheHit(r.backend.Name())
		}
		return cached, nil
	}
	if r.metrics != nil {
		r.metrics.IncrementCacheMiss(r.backend.Name())
	}

	gen, genErr := r.backend.Generation(ctx, key)
	if genErr != nil {
		r.warn(ctx, "override cache generation read failed", key, genErr)
	}
	overrides, err := load()
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return overrides, nil
	}
	stored, err := r.backend.SetIfGeneration(ctx, key, gen, overrides)
	if err != nil {
		r.warn(ctx, "override cache write failed", key, err)
	} else if !stored && r.logger != nil {
		r.logger.DebugContext(ctx, "override cache entry invalidated during load",
			"backend", r.backend.Name(),
			"key", key,
		)
	}
	return overrides, nil
}

// InvalidateScope drops the entry for scope. A user-scope mutation only
// touches the user's entry.
func (r *Reader) InvalidateScope(ctx context.Context, scope models.Scope) error {
	key := roleKey(scope.Role())
	if scope.IsUser() {
		key = userKey(scope.Username())
	}
	return r.backend.Delete(ctx, key)
}

// InvalidateAll drops every entry.
func (r *Reader) InvalidateAll(ctx context.Context) error {
	return r.backend.Purge(ctx)
}

func (r *Reader) warn(ctx context.Context, msg, key string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.WarnContext(ctx, msg,
		"backend", r.backend.Name(),
		"key", key,
		"error", err,
	)
}

var _ override.Reader = (*Reader)(nil)
