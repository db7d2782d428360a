// Package handler exposes module access control over HTTP.
//
// Self-service routes answer questions about the authenticated caller.
// Administrative routes manage overrides and read the audit trail; the
// caller mounts them behind the admin role check.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hospital/internal/access/catalog"
	"hospital/internal/access/models"
	id "hospital/pkg/domain"
	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/httputil"
	pstrings "hospital/pkg/platform/strings"
	"hospital/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service Resolver

// Resolver answers access questions for an actor.
type Resolver interface {
	HasAccess(ctx context.Context, actor models.Actor, moduleID string) (bool, error)
	HasAnyAccess(ctx context.Context, actor models.Actor, moduleIDs ...string) (bool, error)
	AccessibleModules(ctx context.Context, actor models.Actor) ([]string, error)
	AccessibleModuleConfigs(ctx context.Context, actor models.Actor) ([]catalog.Module, error)
}

// Service is the administrative side of module access control.
type Service interface {
	Modules() []catalog.Module
	DefaultsForRole(role models.Role) *models.RoleDefaultsResponse
	ListOverrides(ctx context.Context) (*models.OverrideListResponse, error)
	ListRoleOverrides(ctx context.Context, role models.Role) (*models.OverrideListResponse, error)
	ListUserOverrides(ctx context.Context, username string) (*models.OverrideListResponse, error)
	SetPermission(ctx context.Context, req models.SetPermissionRequest, performedBy string) (*models.SetResult, error)
	DeletePermission(ctx context.Context, overrideID id.OverrideID, performedBy string) error
	DeletePermissionByScope(ctx context.Context, scope models.Scope, moduleID, performedBy string) error
	ResetRole(ctx context.Context, role models.Role, performedBy string) (*models.ResetResult, error)
	ResetUser(ctx context.Context, username, performedBy string) (*models.ResetResult, error)
	ResetAll(ctx context.Context, performedBy string) (*models.ResetResult, error)
	RecentAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error)
	AuditPage(ctx context.Context, page, size int, filter models.AuditFilter) (*models.AuditPage, error)
	AuditForRole(ctx context.Context, role models.Role) ([]*models.AuditEntry, error)
	AuditForUser(ctx context.Context, username string) ([]*models.AuditEntry, error)
}

// Handler serves the /permissions and /admin/permissions routes.
type Handler struct {
	service      Service
	resolver     Resolver
	logger       *slog.Logger
	writeLimiter func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithWriteLimiter wraps every administrative mutation route with mw.
func WithWriteLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.writeLimiter = mw
	}
}

func New(service Service, resolver Resolver, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterSelf mounts routes any authenticated actor may call.
func (h *Handler) RegisterSelf(r chi.Router) {
	r.Get("/permissions/my-modules", h.HandleMyModules)
	r.Get("/permissions/my-module-configs", h.HandleMyModuleConfigs)
	r.Get("/permissions/my-permissions", h.HandleMyPermissions)
	r.Get("/permissions/check/{moduleID}", h.HandleCheck)
	r.Get("/permissions/check-any", h.HandleCheckAny)
}

type modulesResponse struct {
	Modules []string `json:"modules"`
}

type moduleConfigsResponse struct {
	Modules []catalog.Module `json:"modules"`
}

type checkAnyResponse struct {
	Modules   []string `json:"modules"`
	HasAccess bool     `json:"has_access"`
}

// HandleMyModules handles GET /permissions/my-modules.
func (h *Handler) HandleMyModules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	modules, err := h.resolver.AccessibleModules(ctx, actor)
	if err != nil {
		h.fail(ctx, w, "failed to resolve modules", err)
		return
	}
	if modules == nil {
		modules = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, modulesResponse{Modules: modules})
}

// HandleMyModuleConfigs handles GET /permissions/my-module-configs.
func (h *Handler) HandleMyModuleConfigs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	modules, err := h.resolver.AccessibleModuleConfigs(ctx, actor)
	if err != nil {
		h.fail(ctx, w, "failed to resolve module configs", err)
		return
	}
	if modules == nil {
		modules = []catalog.Module{}
	}
	httputil.WriteJSON(w, http.StatusOK, moduleConfigsResponse{Modules: modules})
}

// HandleMyPermissions handles GET /permissions/my-permissions.
func (h *Handler) HandleMyPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	modules, err := h.resolver.AccessibleModules(ctx, actor)
	if err != nil {
		h.fail(ctx, w, "failed to resolve modules", err)
		return
	}
	if modules == nil {
		modules = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.MyPermissionsResponse{
		Username: actor.Username,
		Role:     actor.Role,
		IsAdmin:  actor.IsAdmin(),
		Modules:  modules,
	})
}

// HandleCheck handles GET /permissions/check/{moduleID}. Unknown modules
// answer false rather than 404.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	moduleID := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "moduleID")))
	allowed, err := h.resolver.HasAccess(ctx, actor, moduleID)
	if err != nil {
		h.fail(ctx, w, "failed to check module access", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AccessCheckResponse{ModuleID: moduleID, HasAccess: allowed})
}

// HandleCheckAny handles GET /permissions/check-any?modules=a,b.
func (h *Handler) HandleCheckAny(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	modules := pstrings.SplitList(r.URL.Query().Get("modules"), pstrings.TrimLower)
	if len(modules) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "modules is required"))
		return
	}
	allowed, err := h.resolver.HasAnyAccess(ctx, actor, modules...)
	if err != nil {
		h.fail(ctx, w, "failed to check module access", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, checkAnyResponse{Modules: modules, HasAccess: allowed})
}

// actor reads the authenticated identity placed in the context by the auth
// middleware. A missing or unrecognized identity is a 401.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	username, role := requestcontext.Actor(r.Context())
	actor, err := models.NewActor(username, role)
	if err != nil {
		h.logger.WarnContext(r.Context(), "request without a usable actor",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return models.Actor{}, false
	}
	return actor, true
}

// fail logs server-side failures at error level and client faults at warn,
// then writes the coded response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
