package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/access/models"
	"hospital/internal/access/store/auditlog"
	id "hospital/pkg/domain"
)

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, *models.AuditEntry) error { return f.err }

func created() *models.AuditEntry {
	return &models.AuditEntry{
		ID:             id.NewAuditEntryID(),
		Action:         models.ActionCreated,
		TargetRole:     models.RoleReceptionist,
		TargetUsername: "maria",
		ModuleID:       "archivos",
		NewKind:        models.KindGrant,
		PerformedBy:    "carlos",
		PerformedAt:    time.Now(),
	}
}

func TestStorePublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("appends valid entries", func(t *testing.T) {
		store := auditlog.NewInMemoryStore()
		require.NoError(t, NewStorePublisher(store).Publish(ctx, created()))

		got, err := store.ListByUsername(ctx, "maria")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("rejects entries without an actor", func(t *testing.T) {
		store := auditlog.NewInMemoryStore()
		e := created()
		e.PerformedBy = ""
		assert.Error(t, NewStorePublisher(store).Publish(ctx, e))

		got, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		e := created()
		e.Action = "GRANTED"
		assert.Error(t, NewStorePublisher(auditlog.NewInMemoryStore()).Publish(ctx, e))
	})
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("stream down")
	store := auditlog.NewInMemoryStore()

	err := Multi{failingPublisher{err: boom}, NewStorePublisher(store)}.Publish(ctx, created())
	assert.ErrorIs(t, err, boom)

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1, "later sinks still receive the entry")
}

func TestPartitionKey(t *testing.T) {
	e := created()
	assert.Equal(t, "user:maria", partitionKey(e))

	e.TargetUsername = ""
	assert.Equal(t, "role:RECEPTIONIST", partitionKey(e))

	e.TargetRole = ""
	assert.Equal(t, "all", partitionKey(e))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), created()))
}

func TestOptional(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	err := Optional{Publisher: failingPublisher{err: errors.New("stream down")}, Logger: logger}.Publish(ctx, created())
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "optional audit sink skipped entry")

	logs.Reset()
	err = Optional{Publisher: failingPublisher{err: ErrCircuitOpen}, Logger: logger}.Publish(ctx, created())
	assert.NoError(t, err)
	assert.Empty(t, logs.String(), "open circuit logs below the default level")
}
