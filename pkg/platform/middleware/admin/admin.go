// Package admin guards the administrative surface.
package admin

import (
	"log/slog"
	"net/http"

	"hospital/pkg/platform/middleware/auth"
)

// RoleAdmin is the only role allowed through RequireAdmin.
const RoleAdmin = "ADMIN"

// RequireAdmin rejects any authenticated actor that is not an administrator.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return auth.RequireRole(logger, RoleAdmin)
}
