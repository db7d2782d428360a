// Package guard gates routes of other hospital modules on the resolver.
package guard

import (
	"context"
	"log/slog"
	"net/http"

	"hospital/internal/access/models"
	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/httputil"
	"hospital/pkg/requestcontext"
)

// Checker is the resolver capability the guard needs.
type Checker interface {
	HasAccess(ctx context.Context, actor models.Actor, moduleID string) (bool, error)
	HasResourceAccess(ctx context.Context, actor models.Actor, resource string) (bool, error)
}

// RequireModule lets a request through only when the authenticated actor may
// use moduleID. Resolver failures deny with a 500. It must run after the
// auth middleware.
func RequireModule(checker Checker, moduleID string, logger *slog.Logger) func(http.Handler) http.Handler {
	return require(logger, "module_id", moduleID, func(ctx context.Context, actor models.Actor) (bool, error) {
		return checker.HasAccess(ctx, actor, moduleID)
	})
}

// RequireResource is RequireModule keyed by API resource name.
func RequireResource(checker Checker, resource string, logger *slog.Logger) func(http.Handler) http.Handler {
	return require(logger, "resource", resource, func(ctx context.Context, actor models.Actor) (bool, error) {
		return checker.HasResourceAccess(ctx, actor, resource)
	})
}

func require(
	logger *slog.Logger,
	label, target string,
	check func(ctx context.Context, actor models.Actor) (bool, error),
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			username, role := requestcontext.Actor(ctx)
			actor, err := models.NewActor(username, role)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			allowed, err := check(ctx, actor)
			if err != nil {
				logger.ErrorContext(ctx, "module access check failed",
					label, target,
					"username", actor.Username,
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "access check failed"))
				return
			}
			if !allowed {
				logger.WarnContext(ctx, "module access denied",
					label, target,
					"username", actor.Username,
					"role", actor.Role,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.Newf(dErrors.CodeForbidden, "no access to %s", target))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
