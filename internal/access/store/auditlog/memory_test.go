package auditlog

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
)

func entry(action models.Action, role models.Role, username string, at time.Time) *models.AuditEntry {
	return &models.AuditEntry{
		ID:             id.NewAuditEntryID(),
		Action:         action,
		TargetRole:     role,
		TargetUsername: username,
		ModuleID:       "triage",
		NewKind:        models.KindGrant,
		PerformedBy:    "carlos",
		PerformedAt:    at,
	}
}

func seed(t *testing.T, s *InMemoryStore) []*models.AuditEntry {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*models.AuditEntry{
		entry(models.ActionCreated, models.RoleNurse, "", base),
		entry(models.ActionCreated, models.RoleReceptionist, "maria", base.Add(time.Minute)),
		entry(models.ActionUpdated, models.RoleNurse, "", base.Add(2*time.Minute)),
		entry(models.ActionDeleted, models.RoleNurse, "ana", base.Add(3*time.Minute)),
		entry(models.ActionResetRole, models.RoleNurse, "", base.Add(4*time.Minute)),
	}
	for _, e := range entries {
		require.NoError(t, s.Append(context.Background(), e))
	}
	return entries
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("recent is newest first and limited", func(t *testing.T) {
		s := NewInMemoryStore()
		entries := seed(t, s)

		got, err := s.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, entries[4].ID, got[0].ID)
		assert.Equal(t, entries[3].ID, got[1].ID)
	})

	t.Run("list by role includes user entries carrying that role", func(t *testing.T) {
		s := NewInMemoryStore()
		seed(t, s)

		got, err := s.ListByRole(ctx, models.RoleNurse)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("list by username", func(t *testing.T) {
		s := NewInMemoryStore()
		entries := seed(t, s)

		got, err := s.ListByUsername(ctx, "maria")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entries[1].ID, got[0].ID)
	})

	t.Run("pages through filtered entries", func(t *testing.T) {
		s := NewInMemoryStore()
		entries := seed(t, s)

		page, total, err := s.Page(ctx, 1, 2, models.AuditFilter{Role: models.RoleNurse})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		require.Len(t, page, 2)
		assert.Equal(t, entries[2].ID, page[0].ID)
		assert.Equal(t, entries[0].ID, page[1].ID)

		page, total, err = s.Page(ctx, 5, 2, models.AuditFilter{})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, page)
	})

	t.Run("offset past the int range is an empty page", func(t *testing.T) {
		s := NewInMemoryStore()
		seed(t, s)

		for _, p := range []int{461168601842738791, math.MaxInt, -1} {
			page, total, err := s.Page(ctx, p, 20, models.AuditFilter{})
			require.NoError(t, err)
			assert.Equal(t, 5, total)
			assert.Empty(t, page)
		}
	})

	t.Run("equal timestamps keep latest append first", func(t *testing.T) {
		s := NewInMemoryStore()
		at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		first := entry(models.ActionCreated, models.RoleNurse, "", at)
		second := entry(models.ActionUpdated, models.RoleNurse, "", at)
		require.NoError(t, s.Append(ctx, first))
		require.NoError(t, s.Append(ctx, second))

		got, err := s.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("stored entries are copies", func(t *testing.T) {
		s := NewInMemoryStore()
		e := entry(models.ActionCreated, models.RoleNurse, "", time.Now())
		require.NoError(t, s.Append(ctx, e))
		e.Description = "changed after append"

		got, err := s.Recent(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, got[0].Description)
	})
}
