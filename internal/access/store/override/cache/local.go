package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"hospital/internal/access/models"
)

// Local keeps entries in process memory. Invalidations are only seen by the
// process that makes them, so it suits deployments where one process owns
// the override store.
type Local struct {
	lru *expirable.LRU[string, []*models.Override]

	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64
}

func NewLocal(size int, ttl time.Duration) *Local {
	return &Local{
		lru:  expirable.NewLRU[string, []*models.Override](size, nil, ttl),
		gens: make(map[string]uint64),
	}
}

func (l *Local) Get(_ context.Context, key string) ([]*models.Override, bool, error) {
	v, ok := l.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return cloneAll(v), true, nil
}

func (l *Local) Generation(_ context.Context, key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token(key), nil
}

func (l *Local) SetIfGeneration(_ context.Context, key, gen string, overrides []*models.Override) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.token(key) != gen {
		return false, nil
	}
	l.lru.Add(key, cloneAll(overrides))
	return true, nil
}

func (l *Local) Delete(_ context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		l.gens[k]++
		l.lru.Remove(k)
	}
	return nil
}

// Purge starts a new epoch; per-key counters restart under it.
func (l *Local) Purge(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	clear(l.gens)
	l.lru.Purge()
	return nil
}

func (l *Local) Name() string { return "local" }

// token must be called with mu held.
func (l *Local) token(key string) string {
	return strconv.FormatUint(l.epoch, 10) + ":" + strconv.FormatUint(l.gens[key], 10)
}

func cloneAll(in []*models.Override) []*models.Override {
	out := make([]*models.Override, len(in))
	for i, o := range in {
		c := *o
		out[i] = &c
	}
	return out
}
