package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
	txcontext "hospital/pkg/platform/tx"
)

const selectColumns = `
	SELECT id, action, target_role, target_username, module_id, new_kind,
	       previous_kind, affected_count, performed_by, performed_at, description
	FROM permission_audit_log`

const newestFirst = ` ORDER BY performed_at DESC, id DESC`

// PostgresStore persists audit entries in permission_audit_log.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.DBTX {
	return txcontext.Querier(ctx, s.db)
}

func (s *PostgresStore) Append(ctx context.Context, e *models.AuditEntry) error {
	query := `
		INSERT INTO permission_audit_log (
			id, action, target_role, target_username, module_id, new_kind,
			previous_kind, affected_count, performed_by, performed_at, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(e.ID),
		string(e.Action),
		nullString(string(e.TargetRole)),
		nullString(e.TargetUsername),
		nullString(e.ModuleID),
		nullString(string(e.NewKind)),
		nullString(string(e.PreviousKind)),
		nullInt(e.AffectedCount),
		e.PerformedBy,
		e.PerformedAt,
		nullString(e.Description),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	return s.query(ctx, selectColumns+newestFirst+` LIMIT $1`, limit)
}

func (s *PostgresStore) ListByRole(ctx context.Context, role models.Role) ([]*models.AuditEntry, error) {
	return s.query(ctx, selectColumns+` WHERE target_role = $1`+newestFirst, string(role))
}

func (s *PostgresStore) ListByUsername(ctx context.Context, username string) ([]*models.AuditEntry, error) {
	return s.query(ctx, selectColumns+` WHERE target_username = $1`+newestFirst, username)
}

func (s *PostgresStore) Page(ctx context.Context, page, size int, filter models.AuditFilter) ([]*models.AuditEntry, int, error) {
	where, args := filterClause(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM permission_audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	n := len(args)
	query := selectColumns + where + newestFirst + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
	entries, err := s.query(ctx, query, append(args, size, page*size)...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func filterClause(filter models.AuditFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conds = append(conds, fmt.Sprintf("target_role = $%d", len(args)))
	}
	if filter.Username != "" {
		args = append(args, filter.Username)
		conds = append(conds, fmt.Sprintf("target_username = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.AuditEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (*models.AuditEntry, error) {
	var (
		e                                  models.AuditEntry
		rowID                              uuid.UUID
		action                             string
		role, username, moduleID           sql.NullString
		newKind, previousKind, description sql.NullString
		affected                           sql.NullInt64
	)
	err := rows.Scan(&rowID, &action, &role, &username, &moduleID, &newKind,
		&previousKind, &affected, &e.PerformedBy, &e.PerformedAt, &description)
	if err != nil {
		return nil, err
	}
	e.ID = id.AuditEntryID(rowID)
	e.Action = models.Action(action)
	e.TargetRole = models.Role(role.String)
	e.TargetUsername = username.String
	e.ModuleID = moduleID.String
	e.NewKind = models.Kind(newKind.String)
	e.PreviousKind = models.Kind(previousKind.String)
	e.AffectedCount = int(affected.Int64)
	e.Description = description.String
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
