// Package service is the only writer of module access overrides.
//
// Every mutation runs in one override transaction. The service never
// persists an override that would not change resolution, and it records
// exactly one audit entry for each mutation that changed state. Audit
// delivery and cache invalidation happen after commit and never fail the
// mutation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"hospital/internal/access/audit"
	"hospital/internal/access/catalog"
	"hospital/internal/access/metrics"
	"hospital/internal/access/models"
	"hospital/internal/access/resolver"
	"hospital/internal/access/store/override"
	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/sentinel"
	"hospital/pkg/requestcontext"
)

const (
	DefaultRecentAuditLimit = 50
	MaxRecentAuditLimit     = 500
	DefaultAuditPageSize    = 20
	MaxAuditPageSize        = 100
)

// AuditReader is the query side of the audit log.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]*models.AuditEntry, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.AuditEntry, error)
	ListByUsername(ctx context.Context, username string) ([]*models.AuditEntry, error)
	Page(ctx context.Context, page, size int, filter models.AuditFilter) ([]*models.AuditEntry, int, error)
}

// CacheInvalidator drops cached override lists after a commit.
type CacheInvalidator interface {
	InvalidateScope(ctx context.Context, scope models.Scope) error
	InvalidateAll(ctx context.Context) error
}

type Service struct {
	catalog     *catalog.Catalog
	resolver    *resolver.Resolver
	overrides   override.Store
	tx          override.Tx
	auditLog    AuditReader
	publisher   audit.Publisher
	invalidator CacheInvalidator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher replaces the publisher that receives audit entries.
func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCacheInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

// New constructs a Service. Audit entries go to audit.Nop until a publisher
// is supplied with WithAuditPublisher.
func New(
	c *catalog.Catalog,
	res *resolver.Resolver,
	overrides override.Store,
	tx override.Tx,
	auditLog AuditReader,
	opts ...Option,
) *Service {
	s := &Service{
		catalog:   c,
		resolver:  res,
		overrides: overrides,
		tx:        tx,
		auditLog:  auditLog,
		publisher: audit.Nop{},
		tracer:    otel.Tracer("hospital/internal/access/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Modules returns the catalog in menu order.
func (s *Service) Modules() []catalog.Module {
	return s.catalog.Modules()
}

// DefaultsForRole lists the modules role can use with no overrides.
func (s *Service) DefaultsForRole(role models.Role) *models.RoleDefaultsResponse {
	modules := s.catalog.DefaultModulesFor(role)
	if role.IsAdmin() {
		modules = s.catalog.IDs()
	}
	if modules == nil {
		modules = []string{}
	}
	return &models.RoleDefaultsResponse{Role: role, Modules: modules}
}

func (s *Service) ListOverrides(ctx context.Context) (*models.OverrideListResponse, error) {
	list, err := s.overrides.ListAll(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list overrides")
	}
	return overrideList(list), nil
}

func (s *Service) ListRoleOverrides(ctx context.Context, role models.Role) (*models.OverrideListResponse, error) {
	list, err := s.overrides.ListByRole(ctx, role)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list role overrides")
	}
	return overrideList(list), nil
}

func (s *Service) ListUserOverrides(ctx context.Context, username string) (*models.OverrideListResponse, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	list, err := s.overrides.ListByUsername(ctx, username)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list user overrides")
	}
	return overrideList(list), nil
}

// RecentAudit returns the newest audit entries. A non-positive limit means
// DefaultRecentAuditLimit.
func (s *Service) RecentAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentAuditLimit
	}
	limit = min(limit, MaxRecentAuditLimit)
	entries, err := s.auditLog.Recent(ctx, limit)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load audit entries")
	}
	return entries, nil
}

// AuditPage returns one zero-based page of audit entries matching filter.
func (s *Service) AuditPage(ctx context.Context, page, size int, filter models.AuditFilter) (*models.AuditPage, error) {
	if page < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "page must be zero or greater")
	}
	if size <= 0 {
		size = DefaultAuditPageSize
	}
	if size > MaxAuditPageSize {
		return nil, dErrors.Newf(dErrors.CodeValidation, "size must be %d or less", MaxAuditPageSize)
	}
	// page*size is the store offset and must not overflow.
	if page > math.MaxInt/size-1 {
		return nil, dErrors.New(dErrors.CodeValidation, "page is out of range")
	}
	entries, total, err := s.auditLog.Page(ctx, page, size, filter)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load audit page")
	}
	return models.NewAuditPage(entries, page, size, total), nil
}

func (s *Service) AuditForRole(ctx context.Context, role models.Role) ([]*models.AuditEntry, error) {
	entries, err := s.auditLog.ListByRole(ctx, role)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load role audit entries")
	}
	return entries, nil
}

func (s *Service) AuditForUser(ctx context.Context, username string) ([]*models.AuditEntry, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	entries, err := s.auditLog.ListByUsername(ctx, username)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load user audit entries")
	}
	return entries, nil
}

// afterCommit publishes entry and drops cached lists for the scopes the
// mutation touched. Failures are logged only. The mutation is committed by
// now, so neither step may be cut short by the caller going away.
func (s *Service) afterCommit(ctx context.Context, entry *models.AuditEntry, invalidate func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	if invalidate != nil && s.invalidator != nil {
		if err := invalidate(ctx); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "override cache invalidation failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	if entry == nil {
		return
	}
	s.incrementMutation(entry.Action)
	s.logAudit(ctx, entry)
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.incrementAuditFailure()
		if s.logger != nil {
			s.logger.WarnContext(ctx, "permission audit entry not recorded",
				"action", entry.Action,
				"module_id", entry.ModuleID,
				"performed_by", entry.PerformedBy,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
}

func (s *Service) logAudit(ctx context.Context, e *models.AuditEntry) {
	if s.logger == nil {
		return
	}
	args := []any{
		"log_type", "audit",
		"action", e.Action,
		"performed_by", e.PerformedBy,
	}
	if e.TargetRole != "" {
		args = append(args, "target_role", e.TargetRole)
	}
	if e.TargetUsername != "" {
		args = append(args, "target_username", e.TargetUsername)
	}
	if e.ModuleID != "" {
		args = append(args, "module_id", e.ModuleID)
	}
	if e.PreviousKind != "" {
		args = append(args, "previous_kind", e.PreviousKind)
	}
	if e.NewKind != "" {
		args = append(args, "new_kind", e.NewKind)
	}
	if e.AffectedCount > 0 {
		args = append(args, "affected_count", e.AffectedCount)
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		args = append(args, "request_id", reqID)
	}
	s.logger.InfoContext(ctx, string(e.Action), args...)
}

func (s *Service) incrementMutation(action models.Action) {
	if s.metrics != nil {
		s.metrics.IncrementMutation(string(action))
	}
}

func (s *Service) incrementNoOp(state models.State) {
	if s.metrics != nil {
		s.metrics.IncrementNoOp(string(state))
	}
}

func (s *Service) incrementAuditFailure() {
	if s.metrics != nil {
		s.metrics.IncrementAuditFailure()
	}
}

func overrideList(list []*models.Override) *models.OverrideListResponse {
	if list == nil {
		list = []*models.Override{}
	}
	return &models.OverrideListResponse{Overrides: list, Total: len(list)}
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if len(username) > 100 {
		return "", dErrors.New(dErrors.CodeValidation, "username must be 100 characters or less")
	}
	return username, nil
}

// wrapStoreErr keeps domain errors as they are and maps everything else to
// an internal error, or a timeout when the deadline ran out.
func wrapStoreErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "override not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
