package override

import (
	"context"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
)

// Reader is the read side used by permission resolution.
type Reader interface {
	ListByRole(ctx context.Context, role models.Role) ([]*models.Override, error)
	ListByUsername(ctx context.Context, username string) ([]*models.Override, error)
}

// Store is the full override contract. Lookups of a missing row return
// sentinel.ErrNotFound.
type Store interface {
	Reader
	FindByID(ctx context.Context, overrideID id.OverrideID) (*models.Override, error)
	FindByRole(ctx context.Context, role models.Role, moduleID string) (*models.Override, error)
	FindByUsername(ctx context.Context, username, moduleID string) (*models.Override, error)
	ListAll(ctx context.Context) ([]*models.Override, error)
	// Create inserts o, or replaces the kind of the row already holding its
	// key. Either way o ends up carrying the id of the row on file.
	Create(ctx context.Context, o *models.Override) error
	UpdateKind(ctx context.Context, o *models.Override) error
	Delete(ctx context.Context, overrideID id.OverrideID) error
	DeleteByRole(ctx context.Context, role models.Role) (int, error)
	DeleteByUsername(ctx context.Context, username string) (int, error)
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
	CountByUsername(ctx context.Context, username string) (int, error)
}

// Tx provides the transactional boundary for override mutations.
// Implementations may wrap a database transaction or, in memory, a coarse lock.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// FindByScope looks up the override at the exact key scope addresses.
func FindByScope(ctx context.Context, store Store, scope models.Scope, moduleID string) (*models.Override, error) {
	if scope.IsUser() {
		return store.FindByUsername(ctx, scope.Username(), moduleID)
	}
	return store.FindByRole(ctx, scope.Role(), moduleID)
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Tx    = (*InMemoryTx)(nil)
	_ Tx    = (*PostgresTx)(nil)
)
