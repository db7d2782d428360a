package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/access/models"
)

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) Publish(context.Context, *models.AuditEntry) error {
	c.calls++
	return c.err
}

func TestBreaker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("opens after threshold and skips the publisher", func(t *testing.T) {
		inner := &countingPublisher{err: errors.New("broker down")}
		b := NewBreaker(inner, 2, time.Minute, WithClock(clock))

		assert.Error(t, b.Publish(ctx, created()))
		assert.Error(t, b.Publish(ctx, created()))
		assert.True(t, b.IsOpen())

		err := b.Publish(ctx, created())
		assert.ErrorIs(t, err, ErrCircuitOpen)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("half-open trial closes on success", func(t *testing.T) {
		inner := &countingPublisher{err: errors.New("broker down")}
		b := NewBreaker(inner, 1, time.Minute, WithClock(func() time.Time { return now }))

		require.Error(t, b.Publish(ctx, created()))
		require.True(t, b.IsOpen())

		now = now.Add(2 * time.Minute)
		inner.err = nil
		require.NoError(t, b.Publish(ctx, created()))
		assert.False(t, b.IsOpen())
		assert.NoError(t, b.Publish(ctx, created()))
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("failed trial re-opens", func(t *testing.T) {
		inner := &countingPublisher{err: errors.New("broker down")}
		b := NewBreaker(inner, 1, time.Minute, WithClock(func() time.Time { return now }))

		require.Error(t, b.Publish(ctx, created()))
		now = now.Add(2 * time.Minute)
		require.Error(t, b.Publish(ctx, created()))
		assert.ErrorIs(t, b.Publish(ctx, created()), ErrCircuitOpen)
		assert.Equal(t, 2, inner.calls)
	})
}
