package override

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
	"hospital/pkg/platform/sentinel"
	txcontext "hospital/pkg/platform/tx"
)

// PostgresStore persists overrides in the module_overrides table.
//
// Uniqueness per (scope key, module) is enforced by two partial unique
// indexes, one per scope type. Calls made inside PostgresTx.RunInTx run on
// the transaction carried by the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.DBTX {
	return txcontext.Querier(ctx, s.db)
}

const overrideColumns = `id, scope, role, username, module_id, kind, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, overrideID id.OverrideID) (*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides WHERE id = $1`
	return s.findOne(ctx, query, uuid.UUID(overrideID))
}

func (s *PostgresStore) FindByRole(ctx context.Context, role models.Role, moduleID string) (*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides
		WHERE scope = 'role' AND role = $1 AND module_id = $2`
	return s.findOne(ctx, query, string(role), moduleID)
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username, moduleID string) (*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides
		WHERE scope = 'user' AND username = $1 AND module_id = $2`
	return s.findOne(ctx, query, username, moduleID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*models.Override, error) {
	row := s.execer(ctx).QueryRowContext(ctx, query, args...)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find override: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides ORDER BY created_at, id`
	return s.list(ctx, query)
}

func (s *PostgresStore) ListByRole(ctx context.Context, role models.Role) ([]*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides
		WHERE scope = 'role' AND role = $1 ORDER BY created_at, id`
	return s.list(ctx, query, string(role))
}

func (s *PostgresStore) ListByUsername(ctx context.Context, username string) ([]*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM module_overrides
		WHERE scope = 'user' AND username = $1 ORDER BY created_at, id`
	return s.list(ctx, query, username)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Override, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Override, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

// Create inserts o. Two transactions racing to insert the same key both
// succeed and the last commit wins; o is updated with the id and creation
// time of the row that ends up on file.
func (s *PostgresStore) Create(ctx context.Context, o *models.Override) error {
	var conflictTarget string
	var username sql.NullString
	if o.Scope.IsUser() {
		conflictTarget = `(username, module_id) WHERE scope = 'user'`
		username = sql.NullString{String: o.Scope.Username(), Valid: true}
	} else {
		conflictTarget = `(role, module_id) WHERE scope = 'role'`
	}

	query := `
		INSERT INTO module_overrides (id, scope, role, username, module_id, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ` + conflictTarget + `
		DO UPDATE SET kind = EXCLUDED.kind, role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	var rowID uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(o.ID),
		string(o.Scope.Type()),
		string(o.Scope.Role()),
		username,
		o.ModuleID,
		string(o.Kind),
		o.CreatedAt,
		o.UpdatedAt,
	).Scan(&rowID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert override: %w", err)
	}
	o.ID = id.OverrideID(rowID)
	return nil
}

func (s *PostgresStore) UpdateKind(ctx context.Context, o *models.Override) error {
	query := `UPDATE module_overrides SET kind = $2, updated_at = $3 WHERE id = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(o.ID), string(o.Kind), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update override: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, overrideID id.OverrideID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM module_overrides WHERE id = $1`, uuid.UUID(overrideID))
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) DeleteByRole(ctx context.Context, role models.Role) (int, error) {
	return s.deleteWhere(ctx, `DELETE FROM module_overrides WHERE scope = 'role' AND role = $1`, string(role))
}

func (s *PostgresStore) DeleteByUsername(ctx context.Context, username string) (int, error) {
	return s.deleteWhere(ctx, `DELETE FROM module_overrides WHERE scope = 'user' AND username = $1`, username)
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int, error) {
	return s.deleteWhere(ctx, `DELETE FROM module_overrides`)
}

func (s *PostgresStore) deleteWhere(ctx context.Context, query string, args ...any) (int, error) {
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete overrides: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM module_overrides`)
}

func (s *PostgresStore) CountByRole(ctx context.Context, role models.Role) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM module_overrides WHERE scope = 'role' AND role = $1`, string(role))
}

func (s *PostgresStore) CountByUsername(ctx context.Context, username string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM module_overrides WHERE scope = 'user' AND username = $1`, username)
}

func (s *PostgresStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count overrides: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*models.Override, error) {
	var (
		rowID    uuid.UUID
		scope    string
		role     string
		username sql.NullString
		o        models.Override
		kind     string
	)
	if err := row.Scan(&rowID, &scope, &role, &username, &o.ModuleID, &kind, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.ID = id.OverrideID(rowID)
	o.Kind = models.Kind(kind)
	switch models.ScopeType(scope) {
	case models.ScopeUser:
		o.Scope = models.UserScope(username.String, models.Role(role))
	case models.ScopeRole:
		o.Scope = models.RoleScope(models.Role(role))
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}
	return &o, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
