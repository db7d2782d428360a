// Package resolver decides which modules an actor may use.
//
// Resolution layers three tiers, each overriding the one before:
//
//  1. the catalog default for the actor's role
//  2. role-scope overrides for the actor's role
//  3. user-scope overrides for the actor's username
//
// ADMIN bypasses all three and may use every module. A module id missing
// from the catalog is never accessible to a non-admin, and overrides that
// name such a module are ignored.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"hospital/internal/access/catalog"
	"hospital/internal/access/metrics"
	"hospital/internal/access/models"
	"hospital/internal/access/store/override"
)

const tracerName = "hospital/internal/access/resolver"

// Resolver is safe for concurrent use. It holds no mutable state of its own.
type Resolver struct {
	catalog   *catalog.Catalog
	overrides override.Reader
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func New(c *catalog.Catalog, overrides override.Reader, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:   c,
		overrides: overrides,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithReader returns a resolver reading overrides from reader instead.
// The administration service uses it to resolve against the store of an
// open transaction.
func (r *Resolver) WithReader(reader override.Reader) *Resolver {
	c := *r
	c.overrides = reader
	return &c
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *catalog.Catalog {
	return r.catalog
}

// HasAccess reports whether actor may use moduleID. Unknown modules are
// denied without touching the override store.
func (r *Resolver) HasAccess(ctx context.Context, actor models.Actor, moduleID string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.HasAccess", trace.WithAttributes(
		attribute.String("actor.role", string(actor.Role)),
		attribute.String("module.id", moduleID),
	))
	defer span.End()

	allowed, err := r.hasAccess(ctx, actor, moduleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return false, err
	}
	span.SetAttributes(attribute.Bool("access.allowed", allowed))
	if r.metrics != nil {
		r.metrics.IncrementDecision(moduleID, allowed)
	}
	return allowed, nil
}

func (r *Resolver) hasAccess(ctx context.Context, actor models.Actor, moduleID string) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if !r.catalog.IsValid(moduleID) {
		return false, nil
	}
	set, err := r.resolve(ctx, actor)
	if err != nil {
		return false, err
	}
	return set[moduleID], nil
}

// AccessibleModules returns every module actor may use, in catalog order.
func (r *Resolver) AccessibleModules(ctx context.Context, actor models.Actor) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.AccessibleModules", trace.WithAttributes(
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()

	if actor.IsAdmin() {
		return r.catalog.IDs(), nil
	}
	set, err := r.resolve(ctx, actor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return nil, err
	}
	ids := make([]string, 0, len(set))
	for _, id := range r.catalog.IDs() {
		if set[id] {
			ids = append(ids, id)
		}
	}
	span.SetAttributes(attribute.Int("access.module_count", len(ids)))
	return ids, nil
}

// AccessibleModuleConfigs returns the display metadata of every module actor
// may use, for menu rendering.
func (r *Resolver) AccessibleModuleConfigs(ctx context.Context, actor models.Actor) ([]catalog.Module, error) {
	ids, err := r.AccessibleModules(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Module, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.catalog.Module(id); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// HasAnyAccess reports whether actor may use at least one of moduleIDs.
func (r *Resolver) HasAnyAccess(ctx context.Context, actor models.Actor, moduleIDs ...string) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	var known []string
	for _, id := range moduleIDs {
		if r.catalog.IsValid(id) {
			known = append(known, id)
		}
	}
	if len(known) == 0 {
		return false, nil
	}
	set, err := r.resolve(ctx, actor)
	if err != nil {
		return false, err
	}
	for _, id := range known {
		if set[id] {
			return true, nil
		}
	}
	return false, nil
}

// HasResourceAccess reports whether actor may use any module that gates the
// named API resource (for example "patients").
func (r *Resolver) HasResourceAccess(ctx context.Context, actor models.Actor, resource string) (bool, error) {
	return r.HasAnyAccess(ctx, actor, r.catalog.ModulesForResource(resource)...)
}

// RoleHasAccess resolves the first two tiers only: what a user of role gets
// with no user-scope overrides of their own.
func (r *Resolver) RoleHasAccess(ctx context.Context, role models.Role, moduleID string) (bool, error) {
	if role.IsAdmin() {
		return true, nil
	}
	if !r.catalog.IsValid(moduleID) {
		return false, nil
	}
	roleOverrides, err := r.overrides.ListByRole(ctx, role)
	if err != nil {
		return false, fmt.Errorf("list role overrides: %w", err)
	}
	set := r.defaults(role)
	apply(set, r.catalog, roleOverrides)
	return set[moduleID], nil
}

// resolve computes the accessible set of a non-admin actor.
func (r *Resolver) resolve(ctx context.Context, actor models.Actor) (map[string]bool, error) {
	start := time.Now()
	if r.metrics != nil {
		defer r.metrics.ObserveResolve(start)
	}

	var roleOverrides, userOverrides []*models.Override
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roleOverrides, err = r.overrides.ListByRole(gctx, actor.Role)
		if err != nil {
			return fmt.Errorf("list role overrides: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if actor.Username == "" {
			return nil
		}
		var err error
		userOverrides, err = r.overrides.ListByUsername(gctx, actor.Username)
		if err != nil {
			return fmt.Errorf("list user overrides: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "module resolution failed",
				"username", actor.Username,
				"role", actor.Role,
				"error", err,
			)
		}
		return nil, err
	}

	set := r.defaults(actor.Role)
	apply(set, r.catalog, roleOverrides)
	apply(set, r.catalog, userOverrides)
	return set, nil
}

func (r *Resolver) defaults(role models.Role) map[string]bool {
	set := make(map[string]bool)
	for _, id := range r.catalog.DefaultModulesFor(role) {
		set[id] = true
	}
	return set
}

// apply layers overrides onto set. GRANT adds, REVOKE removes.
func apply(set map[string]bool, c *catalog.Catalog, overrides []*models.Override) {
	for _, o := range overrides {
		if !c.IsValid(o.ModuleID) {
			continue
		}
		if o.Kind.Allows() {
			set[o.ModuleID] = true
		} else {
			delete(set, o.ModuleID)
		}
	}
}
