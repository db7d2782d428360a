// Package auditlog persists the append-only trail of permission mutations.
// Every query returns entries newest first.
package auditlog

import (
	"context"

	"hospital/internal/access/models"
)

type Store interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]*models.AuditEntry, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.AuditEntry, error)
	ListByUsername(ctx context.Context, username string) ([]*models.AuditEntry, error)
	// Page returns the zero-based page of entries matching filter and the
	// total number of matching entries.
	Page(ctx context.Context, page, size int, filter models.AuditFilter) ([]*models.AuditEntry, int, error)
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
