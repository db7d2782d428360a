package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"hospital/internal/access/models"
)

// ErrCircuitOpen is returned while a Breaker is skipping its publisher.
var ErrCircuitOpen = errors.New("audit publisher circuit open")

// Breaker stops calling a failing publisher for a cooldown period so a dead
// broker does not add a produce timeout to every mutation. After the
// cooldown one call is let through; success closes the circuit.
type Breaker struct {
	next      Publisher
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu        sync.Mutex
	failures  int
	openUntil time.Time
}

type BreakerOption func(*Breaker)

func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

// NewBreaker opens after threshold consecutive failures and stays open for
// cooldown. Non-positive values fall back to 5 failures and one minute.
func NewBreaker(next Publisher, threshold int, cooldown time.Duration, opts ...BreakerOption) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	b := &Breaker{next: next, threshold: threshold, cooldown: cooldown, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Publish(ctx context.Context, entry *models.AuditEntry) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := b.next.Publish(ctx, entry)
	b.record(err)
	return err
}

// IsOpen reports whether calls are currently skipped.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures >= b.threshold && b.now().Before(b.openUntil)
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.threshold {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	// half-open: one trial call, re-armed until it reports back
	b.openUntil = b.now().Add(b.cooldown)
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
	}
}
