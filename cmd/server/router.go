package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hospital/internal/access/guard"
	"hospital/internal/access/handler"
	jwttoken "hospital/internal/jwt_token"
	"hospital/internal/platform/config"
	platformmetrics "hospital/internal/platform/metrics"
	"hospital/pkg/platform/httputil"
	"hospital/pkg/platform/middleware/admin"
	"hospital/pkg/platform/middleware/auth"
	"hospital/pkg/platform/middleware/ratelimit"
	request "hospital/pkg/platform/middleware/request"
)

// permissionsResource is the API resource the admin routes serve. The catalog
// gates it behind the access administration module.
const permissionsResource = "permissions"

func newRouter(cfg config.Config, a *app, log *slog.Logger) http.Handler {
	httpMetrics := platformmetrics.New()
	validator := jwttoken.NewMiddlewareValidator(
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience),
	)
	limiter := ratelimit.New(cfg.Server.AdminWriteRate, cfg.Server.AdminWriteBurst, log)
	h := handler.New(a.service, a.resolver, log, handler.WithWriteLimiter(limiter.PerActor))

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientMetadata)
	r.Use(request.Logger(log))
	r.Use(httpMetrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := a.health(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
		r.Use(auth.RequireAuth(validator, log))
		h.RegisterSelf(r)

		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdmin(log))
			r.Use(guard.RequireResource(a.resolver, permissionsResource, log))
			h.RegisterAdmin(r)
		})
	})
	return r
}
