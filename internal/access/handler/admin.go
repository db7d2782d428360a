package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hospital/internal/access/models"
	id "hospital/pkg/domain"
	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/httputil"
	"hospital/pkg/requestcontext"
)

// RegisterAdmin mounts the administrative routes. The caller is responsible
// for restricting them to administrators.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Route("/admin/permissions", func(r chi.Router) {
		r.Get("/", h.HandleListOverrides)
		r.Get("/modules", h.HandleModules)
		r.Get("/defaults/{role}", h.HandleDefaults)
		r.Get("/role/{role}", h.HandleListRoleOverrides)
		r.Get("/user/{username}", h.HandleListUserOverrides)
		r.Get("/audit", h.HandleRecentAudit)
		r.Get("/audit/page", h.HandleAuditPage)
		r.Get("/audit/role/{role}", h.HandleAuditForRole)
		r.Get("/audit/user/{username}", h.HandleAuditForUser)

		r.Group(func(r chi.Router) {
			if h.writeLimiter != nil {
				r.Use(h.writeLimiter)
			}
			r.Post("/", h.HandleSetPermission)
			r.Delete("/{id}", h.HandleDeletePermission)
			r.Delete("/role/{role}/module/{moduleID}", h.HandleDeleteRolePermission)
			r.Delete("/user/{username}/module/{moduleID}", h.HandleDeleteUserPermission)
			r.Delete("/reset/role/{role}", h.HandleResetRole)
			r.Delete("/reset/user/{username}", h.HandleResetUser)
			r.Delete("/reset-all", h.HandleResetAll)
		})
	})
}

type auditListResponse struct {
	Entries []*models.AuditEntry `json:"entries"`
	Total   int                  `json:"total"`
}

func auditList(entries []*models.AuditEntry) auditListResponse {
	if entries == nil {
		entries = []*models.AuditEntry{}
	}
	return auditListResponse{Entries: entries, Total: len(entries)}
}

func (h *Handler) HandleModules(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, moduleConfigsResponse{Modules: h.service.Modules()})
}

func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.DefaultsForRole(role))
}

func (h *Handler) HandleListOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.service.ListOverrides(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list overrides", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListRoleOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.service.ListRoleOverrides(ctx, role)
	if err != nil {
		h.fail(ctx, w, "failed to list role overrides", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListUserOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.service.ListUserOverrides(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(ctx, w, "failed to list user overrides", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetPermission handles POST /admin/permissions. A no-op answers 200
// with changed=false; a new override answers 201.
func (h *Handler) HandleSetPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	performedBy := requestcontext.Username(ctx)

	req, err := httputil.DecodeJSON[models.SetPermissionRequest](w, r)
	if err != nil {
		h.fail(ctx, w, "invalid set permission request", err)
		return
	}

	result, err := h.service.SetPermission(ctx, *req, performedBy)
	if err != nil {
		h.fail(ctx, w, "set permission failed", err)
		return
	}

	h.logger.InfoContext(ctx, "permission set",
		"request_id", requestcontext.RequestID(ctx),
		"performed_by", performedBy,
		"module_id", req.ModuleID,
		"state", result.State,
		"changed", result.Changed,
	)
	status := http.StatusOK
	if result.Action == models.ActionCreated {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, result)
}

func (h *Handler) HandleDeletePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overrideID, err := id.ParseOverrideID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePermission(ctx, overrideID, requestcontext.Username(ctx)); err != nil {
		h.fail(ctx, w, "delete permission failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDeleteRolePermission(w http.ResponseWriter, r *http.Request) {
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.deleteByScope(w, r, models.RoleScope(role))
}

// HandleDeleteUserPermission removes a user-level override. The store keys
// user rows by username alone, so the scope carries no reference role.
func (h *Handler) HandleDeleteUserPermission(w http.ResponseWriter, r *http.Request) {
	h.deleteByScope(w, r, models.UserScope(strings.TrimSpace(chi.URLParam(r, "username")), ""))
}

func (h *Handler) deleteByScope(w http.ResponseWriter, r *http.Request, scope models.Scope) {
	ctx := r.Context()
	moduleID := chi.URLParam(r, "moduleID")
	if err := h.service.DeletePermissionByScope(ctx, scope, moduleID, requestcontext.Username(ctx)); err != nil {
		h.fail(ctx, w, "delete permission failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleResetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ResetRole(ctx, role, requestcontext.Username(ctx))
	if err != nil {
		h.fail(ctx, w, "reset role failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleResetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.ResetUser(ctx, chi.URLParam(r, "username"), requestcontext.Username(ctx))
	if err != nil {
		h.fail(ctx, w, "reset user failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleResetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.ResetAll(ctx, requestcontext.Username(ctx))
	if err != nil {
		h.fail(ctx, w, "reset all failed", err)
		return
	}
	h.logger.WarnContext(ctx, "all permission overrides reset",
		"request_id", requestcontext.RequestID(ctx),
		"performed_by", requestcontext.Username(ctx),
		"deleted", result.Deleted,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRecentAudit handles GET /admin/permissions/audit?limit=.
func (h *Handler) HandleRecentAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.RecentAudit(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "failed to load audit entries", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auditList(entries))
}

// HandleAuditPage handles GET /admin/permissions/audit/page?page=&size=&role=&username=.
func (h *Handler) HandleAuditPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := queryInt(r, "page", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var filter models.AuditFilter
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Role = role
	}
	filter.Username = strings.TrimSpace(r.URL.Query().Get("username"))

	resp, err := h.service.AuditPage(ctx, page, size, filter)
	if err != nil {
		h.fail(ctx, w, "failed to load audit page", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAuditForRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.AuditForRole(ctx, role)
	if err != nil {
		h.fail(ctx, w, "failed to load role audit entries", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auditList(entries))
}

func (h *Handler) HandleAuditForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.service.AuditForUser(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(ctx, w, "failed to load user audit entries", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auditList(entries))
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be an integer", key)
	}
	return v, nil
}
