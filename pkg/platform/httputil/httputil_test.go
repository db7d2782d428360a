package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "hospital/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("unknown module is a bad request with description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeUnknownModule, "unknown module: rayos-x"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "unknown_module" {
			t.Fatalf("expected error code unknown_module, got %q", body["error"])
		}
		if body["error_description"] != "unknown module: rayos-x" {
			t.Fatalf("expected error_description to be returned, got %q", body["error_description"])
		}
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "override not found"))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("plain error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, http.ErrHandlerTimeout)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		ModuleID string `json:"module_id"`
	}

	t.Run("decodes object", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"module_id":"citas"}`))
		got, err := DecodeJSON[body](httptest.NewRecorder(), r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ModuleID != "citas" {
			t.Fatalf("expected citas, got %q", got.ModuleID)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		_, err := DecodeJSON[body](httptest.NewRecorder(), r)
		if dErrors.CodeOf(err) != dErrors.CodeBadRequest {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"module":"citas"}`))
		_, err := DecodeJSON[body](httptest.NewRecorder(), r)
		if dErrors.CodeOf(err) != dErrors.CodeBadRequest {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("trailing object", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"module_id":"a"}{"module_id":"b"}`))
		_, err := DecodeJSON[body](httptest.NewRecorder(), r)
		if dErrors.CodeOf(err) != dErrors.CodeBadRequest {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})
}
