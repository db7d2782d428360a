package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	t.Run("empty context yields zero values", func(t *testing.T) {
		ctx := context.Background()
		username, role := Actor(ctx)
		assert.Empty(t, username)
		assert.Empty(t, role)
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, ClientIP(ctx))
	})

	t.Run("values round trip", func(t *testing.T) {
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := WithActor(context.Background(), "carlos", "ADMIN")
		ctx = WithRequestID(ctx, "req-1")
		ctx = WithTime(ctx, fixed)
		ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8")

		username, role := Actor(ctx)
		assert.Equal(t, "carlos", username)
		assert.Equal(t, "ADMIN", role)
		assert.Equal(t, "carlos", Username(ctx))
		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, fixed, Now(ctx))
		assert.Equal(t, "10.0.0.1", ClientIP(ctx))
		assert.Equal(t, "curl/8", UserAgent(ctx))
	})
}
