package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hospital/internal/access/models"
	"hospital/internal/access/store/override"
	id "hospital/pkg/domain"
	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/sentinel"
	"hospital/pkg/requestcontext"
)

const descRestoredToDefault = "restored to default"

// SetPermission grants or revokes a module for a role or a single user.
//
// Redundant requests are answered without a write:
//   - role scope: the requested kind matches the catalog default and no row
//     is on file reports DEFAULT
//   - role scope: a GRANT of a default module with a row on file deletes the
//     row and reports DEFAULT
//   - user scope: the requested kind matches role resolution and no user row
//     is on file reports INHERITED
//
// Otherwise the row at the exact key is created, updated in place, or left
// alone when it already holds the requested kind.
func (s *Service) SetPermission(ctx context.Context, req models.SetPermissionRequest, performedBy string) (*models.SetResult, error) {
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveMutate(start)
	}

	req.Normalize()
	cmd, err := req.Command()
	if err != nil {
		return nil, err
	}
	if !s.catalog.IsValid(cmd.ModuleID) {
		return nil, dErrors.Newf(dErrors.CodeUnknownModule, "unknown module: %s", cmd.ModuleID)
	}
	if performedBy == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "performed_by is required")
	}

	ctx, span := s.tracer.Start(ctx, "service.SetPermission", trace.WithAttributes(
		attribute.String("scope", cmd.Scope.String()),
		attribute.String("module.id", cmd.ModuleID),
		attribute.String("kind", string(cmd.Kind)),
	))
	defer span.End()

	now := requestcontext.Now(ctx)
	var (
		result *models.SetResult
		entry  *models.AuditEntry
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store override.Store) error {
		var err error
		result, entry, err = s.set(ctx, store, cmd, performedBy, now)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "set permission failed")
		return nil, wrapStoreErr(err, "failed to set permission")
	}

	span.SetAttributes(
		attribute.String("result.state", string(result.State)),
		attribute.Bool("result.changed", result.Changed),
	)
	if !result.Changed {
		s.incrementNoOp(result.State)
		return result, nil
	}
	s.afterCommit(ctx, entry, func(ctx context.Context) error {
		return s.invalidator.InvalidateScope(ctx, cmd.Scope)
	})
	return result, nil
}

func (s *Service) set(
	ctx context.Context,
	store override.Store,
	cmd models.SetPermissionCommand,
	performedBy string,
	now time.Time,
) (*models.SetResult, *models.AuditEntry, error) {
	existing, err := override.FindByScope(ctx, store, cmd.Scope, cmd.ModuleID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, fmt.Errorf("find override: %w", err)
	}

	if cmd.Scope.IsRole() {
		isDefault := s.catalog.IsDefault(cmd.Scope.Role(), cmd.ModuleID)
		if existing == nil && cmd.Kind.Allows() == isDefault {
			return &models.SetResult{State: models.StateDefault}, nil, nil
		}
		if existing != nil && cmd.Kind == models.KindGrant && isDefault {
			if err := store.Delete(ctx, existing.ID); err != nil {
				return nil, nil, fmt.Errorf("delete override: %w", err)
			}
			entry := newEntry(models.ActionDeleted, cmd.Scope, cmd.ModuleID, performedBy, now)
			entry.PreviousKind = existing.Kind
			entry.Description = descRestoredToDefault
			return &models.SetResult{
				State:        models.StateDefault,
				Changed:      true,
				Action:       models.ActionDeleted,
				PreviousKind: existing.Kind,
			}, entry, nil
		}
	}

	if cmd.Scope.IsUser() && existing == nil {
		inherited, err := s.resolver.WithReader(store).RoleHasAccess(ctx, cmd.Scope.Role(), cmd.ModuleID)
		if err != nil {
			return nil, nil, err
		}
		if inherited == cmd.Kind.Allows() {
			return &models.SetResult{State: models.StateInherited}, nil, nil
		}
	}

	if existing != nil {
		if existing.Kind == cmd.Kind {
			return &models.SetResult{State: models.StateFor(existing.Kind), Override: existing}, nil, nil
		}
		previous := existing.ApplyKind(cmd.Kind, now)
		if err := store.UpdateKind(ctx, existing); err != nil {
			return nil, nil, fmt.Errorf("update override: %w", err)
		}
		entry := newEntry(models.ActionUpdated, existing.Scope, cmd.ModuleID, performedBy, now)
		entry.NewKind = cmd.Kind
		entry.PreviousKind = previous
		return &models.SetResult{
			State:        models.StateFor(cmd.Kind),
			Changed:      true,
			Action:       models.ActionUpdated,
			PreviousKind: previous,
			Override:     existing,
		}, entry, nil
	}

	o, err := models.NewOverride(id.NewOverrideID(), cmd.Scope, cmd.ModuleID, cmd.Kind, now)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Create(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("create override: %w", err)
	}
	entry := newEntry(models.ActionCreated, cmd.Scope, cmd.ModuleID, performedBy, now)
	entry.NewKind = cmd.Kind
	return &models.SetResult{
		State:    models.StateFor(cmd.Kind),
		Changed:  true,
		Action:   models.ActionCreated,
		Override: o,
	}, entry, nil
}

// DeletePermission removes the override with overrideID.
func (s *Service) DeletePermission(ctx context.Context, overrideID id.OverrideID, performedBy string) error {
	return s.delete(ctx, performedBy, func(ctx context.Context, store override.Store) (*models.Override, error) {
		return store.FindByID(ctx, overrideID)
	})
}

// DeletePermissionByScope removes the override at (scope, moduleID). User
// rows are keyed by username alone, so a user scope needs no reference role.
func (s *Service) DeletePermissionByScope(ctx context.Context, scope models.Scope, moduleID, performedBy string) error {
	if scope.IsUser() {
		username, err := normalizeUsername(scope.Username())
		if err != nil {
			return err
		}
		scope = models.UserScope(username, scope.Role())
	} else if err := scope.Validate(); err != nil {
		return err
	}
	moduleID = strings.ToLower(strings.TrimSpace(moduleID))
	if !s.catalog.IsValid(moduleID) {
		return dErrors.Newf(dErrors.CodeUnknownModule, "unknown module: %s", moduleID)
	}
	return s.delete(ctx, performedBy, func(ctx context.Context, store override.Store) (*models.Override, error) {
		return override.FindByScope(ctx, store, scope, moduleID)
	})
}

func (s *Service) delete(
	ctx context.Context,
	performedBy string,
	find func(ctx context.Context, store override.Store) (*models.Override, error),
) error {
	if performedBy == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "performed_by is required")
	}
	ctx, span := s.tracer.Start(ctx, "service.DeletePermission")
	defer span.End()

	now := requestcontext.Now(ctx)
	var deleted *models.Override
	err := s.tx.RunInTx(ctx, func(ctx context.Context, store override.Store) error {
		o, err := find(ctx, store)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, o.ID); err != nil {
			return err
		}
		deleted = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "override not found")
		}
		return wrapStoreErr(err, "failed to delete override")
	}

	entry := newEntry(models.ActionDeleted, deleted.Scope, deleted.ModuleID, performedBy, now)
	entry.PreviousKind = deleted.Kind
	s.afterCommit(ctx, entry, func(ctx context.Context) error {
		return s.invalidator.InvalidateScope(ctx, deleted.Scope)
	})
	return nil
}

// ResetRole deletes every role-scope override of role. User overrides of
// users holding that role are kept.
func (s *Service) ResetRole(ctx context.Context, role models.Role, performedBy string) (*models.ResetResult, error) {
	scope := models.RoleScope(role)
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.reset(ctx, performedBy, resetPlan{
		action:     models.ActionResetRole,
		targetRole: role,
		count: func(ctx context.Context, st override.Store) (int, error) {
			return st.CountByRole(ctx, role)
		},
		deleteAll: func(ctx context.Context, st override.Store) (int, error) {
			return st.DeleteByRole(ctx, role)
		},
		description: fmt.Sprintf("overrides of role %s", role),
		invalidate: func(ctx context.Context) error {
			return s.invalidator.InvalidateScope(ctx, scope)
		},
	})
}

// ResetUser deletes every user-scope override of username.
func (s *Service) ResetUser(ctx context.Context, username, performedBy string) (*models.ResetResult, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	return s.reset(ctx, performedBy, resetPlan{
		action:         models.ActionResetUser,
		targetUsername: username,
		count: func(ctx context.Context, st override.Store) (int, error) {
			return st.CountByUsername(ctx, username)
		},
		deleteAll: func(ctx context.Context, st override.Store) (int, error) {
			return st.DeleteByUsername(ctx, username)
		},
		description: fmt.Sprintf("overrides of user %s", username),
		invalidate: func(ctx context.Context) error {
			return s.invalidator.InvalidateScope(ctx, models.UserScope(username, ""))
		},
	})
}

// ResetAll deletes every override.
func (s *Service) ResetAll(ctx context.Context, performedBy string) (*models.ResetResult, error) {
	return s.reset(ctx, performedBy, resetPlan{
		action: models.ActionResetAll,
		count: func(ctx context.Context, st override.Store) (int, error) {
			return st.Count(ctx)
		},
		deleteAll: func(ctx context.Context, st override.Store) (int, error) {
			return st.DeleteAll(ctx)
		},
		description: "overrides",
		invalidate: func(ctx context.Context) error {
			return s.invalidator.InvalidateAll(ctx)
		},
	})
}

type resetPlan struct {
	action         models.Action
	targetRole     models.Role
	targetUsername string
	count          func(ctx context.Context, store override.Store) (int, error)
	deleteAll      func(ctx context.Context, store override.Store) (int, error)
	description    string
	invalidate     func(ctx context.Context) error
}

func (s *Service) reset(ctx context.Context, performedBy string, plan resetPlan) (*models.ResetResult, error) {
	if performedBy == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "performed_by is required")
	}
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveMutate(start)
	}
	ctx, span := s.tracer.Start(ctx, "service.Reset", trace.WithAttributes(
		attribute.String("action", string(plan.action)),
	))
	defer span.End()

	now := requestcontext.Now(ctx)
	deleted := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context, store override.Store) error {
		n, err := plan.count(ctx, store)
		if err != nil {
			return fmt.Errorf("count overrides: %w", err)
		}
		if n == 0 {
			return nil
		}
		deleted, err = plan.deleteAll(ctx, store)
		if err != nil {
			return fmt.Errorf("delete overrides: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset failed")
		return nil, wrapStoreErr(err, "failed to reset overrides")
	}
	span.SetAttributes(attribute.Int("deleted", deleted))
	if deleted == 0 {
		s.incrementNoOp(models.StateDefault)
		return &models.ResetResult{}, nil
	}

	entry := &models.AuditEntry{
		ID:             id.NewAuditEntryID(),
		Action:         plan.action,
		TargetRole:     plan.targetRole,
		TargetUsername: plan.targetUsername,
		AffectedCount:  deleted,
		PerformedBy:    performedBy,
		PerformedAt:    now,
		Description:    fmt.Sprintf("reset %d %s", deleted, plan.description),
	}
	s.afterCommit(ctx, entry, plan.invalidate)
	return &models.ResetResult{Deleted: deleted}, nil
}

func newEntry(action models.Action, scope models.Scope, moduleID, performedBy string, now time.Time) *models.AuditEntry {
	e := &models.AuditEntry{
		ID:          id.NewAuditEntryID(),
		Action:      action,
		TargetRole:  scope.Role(),
		ModuleID:    moduleID,
		PerformedBy: performedBy,
		PerformedAt: now,
	}
	if scope.IsUser() {
		e.TargetUsername = scope.Username()
	}
	return e
}
