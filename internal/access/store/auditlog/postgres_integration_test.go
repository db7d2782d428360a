//go:build integration

package auditlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hospital/internal/access/models"
	"hospital/internal/access/store/auditlog"
	id "hospital/pkg/domain"
	"hospital/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditlog.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = auditlog.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "permission_audit_log"))
}

func (s *PostgresStoreSuite) TestAppendKeepsAbsentFieldsAbsent() {
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Microsecond)
	reset := &models.AuditEntry{
		ID:            id.NewAuditEntryID(),
		Action:        models.ActionResetAll,
		AffectedCount: 7,
		PerformedBy:   "carlos",
		PerformedAt:   at,
	}
	s.Require().NoError(s.store.Append(ctx, reset))

	got, err := s.store.Recent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(reset.ID, got[0].ID)
	s.Equal(models.ActionResetAll, got[0].Action)
	s.Equal(7, got[0].AffectedCount)
	s.Empty(got[0].ModuleID)
	s.Empty(got[0].TargetRole)
	s.Empty(got[0].NewKind)
	s.True(at.Equal(got[0].PerformedAt))
}

func (s *PostgresStoreSuite) TestQueriesAndPaging() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	var ids []id.AuditEntryID
	for i, target := range []struct {
		role     models.Role
		username string
	}{
		{models.RoleNurse, ""},
		{models.RoleReceptionist, "maria"},
		{models.RoleNurse, "ana"},
		{models.RoleNurse, ""},
	} {
		e := &models.AuditEntry{
			ID:             id.NewAuditEntryID(),
			Action:         models.ActionCreated,
			TargetRole:     target.role,
			TargetUsername: target.username,
			ModuleID:       "triage",
			NewKind:        models.KindGrant,
			PerformedBy:    "carlos",
			PerformedAt:    base.Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.store.Append(ctx, e))
		ids = append(ids, e.ID)
	}

	byRole, err := s.store.ListByRole(ctx, models.RoleNurse)
	s.Require().NoError(err)
	s.Require().Len(byRole, 3)
	s.Equal(ids[3], byRole[0].ID)

	byUser, err := s.store.ListByUsername(ctx, "maria")
	s.Require().NoError(err)
	s.Require().Len(byUser, 1)
	s.Equal(ids[1], byUser[0].ID)

	page, total, err := s.store.Page(ctx, 1, 2, models.AuditFilter{Role: models.RoleNurse})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(page, 1)
	s.Equal(ids[0], page[0].ID)

	page, total, err = s.store.Page(ctx, 0, 10, models.AuditFilter{Role: models.RoleNurse, Username: "ana"})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(page, 1)
	s.Equal(ids[2], page[0].ID)
}
