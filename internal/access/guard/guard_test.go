package guard

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"

	"hospital/internal/access/catalog"
	"hospital/internal/access/models"
	"hospital/internal/access/resolver"
	"hospital/internal/access/store/override"
	"hospital/pkg/requestcontext"
)

type brokenChecker struct{}

func (brokenChecker) HasAccess(context.Context, models.Actor, string) (bool, error) {
	return false, errors.New("store down")
}

func (brokenChecker) HasResourceAccess(context.Context, models.Actor, string) (bool, error) {
	return false, errors.New("store down")
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, username, role string) *httptest.ResponseRecorder {
	t.Helper()
	reached := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/triage", nil)
	if username != "" {
		req = req.WithContext(requestcontext.WithActor(req.Context(), username, role))
	}
	rr := httptest.NewRecorder()
	mw(reached).ServeHTTP(rr, req)
	return rr
}

func TestRequireModule(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	store := override.NewInMemoryStore()
	res := resolver.New(catalog.Default(), store)

	t.Run("default access passes", func(t *testing.T) {
		rr := serve(t, RequireModule(res, "triage", logger), "ana", "NURSE")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("no default is forbidden", func(t *testing.T) {
		rr := serve(t, RequireModule(res, "triage", logger), "maria", "RECEPTIONIST")
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, logs.String(), "module access denied")
	})

	t.Run("admin passes any module", func(t *testing.T) {
		rr := serve(t, RequireModule(res, "permisos", logger), "carlos", "ADMIN")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rr := serve(t, RequireModule(res, "triage", logger), "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("resolver failure fails closed", func(t *testing.T) {
		rr := serve(t, RequireModule(brokenChecker{}, "triage", logger), "ana", "NURSE")
		trequire.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "store down")
	})
}

func TestRequireResource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	res := resolver.New(catalog.Default(), override.NewInMemoryStore())

	resource := ""
	for _, m := range catalog.Default().Modules() {
		if m.HasDefault(models.RoleDoctor) && len(m.Resources) > 0 {
			resource = m.Resources[0]
			break
		}
	}
	trequire.NotEmpty(t, resource, "catalog maps at least one doctor module to a resource")

	rr := serve(t, RequireResource(res, resource, logger), "juan", "DOCTOR")
	assert.Equal(t, http.StatusOK, rr.Code)
}
