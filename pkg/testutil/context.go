package testutil

import (
	"context"
	"net/http"

	"hospital/pkg/requestcontext"
)

// WithActor adds an authenticated identity to the request context.
// This simulates what the auth middleware does for a valid bearer token.
func WithActor(req *http.Request, username, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), username, role))
}

// AsAdmin authenticates req as the administrator "carlos".
func AsAdmin(req *http.Request) *http.Request {
	return WithActor(req, "carlos", "ADMIN")
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
