// Package override persists administrator overrides of module access.
//
// Two implementations share the same method set: InMemoryStore for tests and
// local runs, PostgresStore for deployments. Both keep at most one row per
// (scope key, module) and report missing rows with sentinel.ErrNotFound.
package override

import (
	"context"
	"sort"
	"sync"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
	"hospital/pkg/platform/sentinel"
)

type scopeKey struct {
	typ      models.ScopeType
	key      string
	moduleID string
}

func keyOf(scope models.Scope, moduleID string) scopeKey {
	return scopeKey{typ: scope.Type(), key: scope.Key(), moduleID: moduleID}
}

type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.OverrideID]*models.Override
	byKey map[scopeKey]id.OverrideID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.OverrideID]*models.Override),
		byKey: make(map[scopeKey]id.OverrideID),
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, overrideID id.OverrideID) (*models.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[overrideID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(o), nil
}

func (s *InMemoryStore) FindByRole(ctx context.Context, role models.Role, moduleID string) (*models.Override, error) {
	return s.findByKey(ctx, keyOf(models.RoleScope(role), moduleID))
}

func (s *InMemoryStore) FindByUsername(ctx context.Context, username, moduleID string) (*models.Override, error) {
	return s.findByKey(ctx, scopeKey{typ: models.ScopeUser, key: username, moduleID: moduleID})
}

func (s *InMemoryStore) findByKey(_ context.Context, k scopeKey) (*models.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	overrideID, ok := s.byKey[k]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[overrideID]), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Override, error) {
	return s.list(func(*models.Override) bool { return true }), nil
}

// ListByRole returns the role-scope overrides of role. User-scope rows that
// carry the role for reference are not included.
func (s *InMemoryStore) ListByRole(_ context.Context, role models.Role) ([]*models.Override, error) {
	return s.list(func(o *models.Override) bool {
		return o.Scope.IsRole() && o.Scope.Role() == role
	}), nil
}

func (s *InMemoryStore) ListByUsername(_ context.Context, username string) ([]*models.Override, error) {
	return s.list(func(o *models.Override) bool {
		return o.Scope.IsUser() && o.Scope.Username() == username
	}), nil
}

func (s *InMemoryStore) list(match func(*models.Override) bool) []*models.Override {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Override, 0)
	for _, o := range s.byID {
		if match(o) {
			out = append(out, clone(o))
		}
	}
	sortOverrides(out)
	return out
}

// Create inserts o. When a row already holds the same key its kind is
// replaced and o takes that row's id and creation time, as PostgresStore does.
func (s *InMemoryStore) Create(_ context.Context, o *models.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(o.Scope, o.ModuleID)
	if existingID, exists := s.byKey[k]; exists {
		existing := s.byID[existingID]
		existing.Kind = o.Kind
		existing.Scope = o.Scope
		existing.UpdatedAt = o.UpdatedAt
		o.ID = existing.ID
		o.CreatedAt = existing.CreatedAt
		return nil
	}
	if _, exists := s.byID[o.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[o.ID] = clone(o)
	s.byKey[k] = o.ID
	return nil
}

func (s *InMemoryStore) UpdateKind(_ context.Context, o *models.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[o.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Kind = o.Kind
	existing.UpdatedAt = o.UpdatedAt
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, overrideID id.OverrideID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[overrideID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byKey, keyOf(o.Scope, o.ModuleID))
	delete(s.byID, overrideID)
	return nil
}

func (s *InMemoryStore) DeleteByRole(_ context.Context, role models.Role) (int, error) {
	return s.deleteWhere(func(o *models.Override) bool {
		return o.Scope.IsRole() && o.Scope.Role() == role
	}), nil
}

func (s *InMemoryStore) DeleteByUsername(_ context.Context, username string) (int, error) {
	return s.deleteWhere(func(o *models.Override) bool {
		return o.Scope.IsUser() && o.Scope.Username() == username
	}), nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context) (int, error) {
	return s.deleteWhere(func(*models.Override) bool { return true }), nil
}

func (s *InMemoryStore) deleteWhere(match func(*models.Override) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for overrideID, o := range s.byID {
		if match(o) {
			delete(s.byKey, keyOf(o.Scope, o.ModuleID))
			delete(s.byID, overrideID)
			n++
		}
	}
	return n
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	return s.count(func(*models.Override) bool { return true }), nil
}

func (s *InMemoryStore) CountByRole(_ context.Context, role models.Role) (int, error) {
	return s.count(func(o *models.Override) bool {
		return o.Scope.IsRole() && o.Scope.Role() == role
	}), nil
}

func (s *InMemoryStore) CountByUsername(_ context.Context, username string) (int, error) {
	return s.count(func(o *models.Override) bool {
		return o.Scope.IsUser() && o.Scope.Username() == username
	}), nil
}

func (s *InMemoryStore) count(match func(*models.Override) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.byID {
		if match(o) {
			n++
		}
	}
	return n
}

// snapshot and restore let InMemoryTx roll back a failed transaction.
func (s *InMemoryStore) snapshot() map[id.OverrideID]*models.Override {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[id.OverrideID]*models.Override, len(s.byID))
	for k, o := range s.byID {
		snap[k] = clone(o)
	}
	return snap
}

func (s *InMemoryStore) restore(snap map[id.OverrideID]*models.Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = snap
	s.byKey = make(map[scopeKey]id.OverrideID, len(snap))
	for overrideID, o := range snap {
		s.byKey[keyOf(o.Scope, o.ModuleID)] = overrideID
	}
}

func clone(o *models.Override) *models.Override {
	c := *o
	return &c
}

func sortOverrides(out []*models.Override) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
}
