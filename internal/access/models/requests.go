package models

import (
	"strings"

	dErrors "hospital/pkg/domain-errors"
	"hospital/pkg/platform/validation"
)

// SetPermissionRequest is the administrator's request to grant or revoke a
// module for a role or a single user. A non-empty Username selects user
// scope; Role is then the user's role, used to evaluate inheritance.
type SetPermissionRequest struct {
	Role     string `json:"role" validate:"required"`
	Username string `json:"username,omitempty" validate:"max=100"`
	ModuleID string `json:"module_id" validate:"required,max=64"`
	Kind     string `json:"kind"`
}

func (r *SetPermissionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	r.Username = strings.TrimSpace(r.Username)
	r.ModuleID = strings.ToLower(strings.TrimSpace(r.ModuleID))
	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
}

// Struct tags cover size and presence; kind and role syntax follow.
// Module existence is checked by the service against the catalog.
func (r *SetPermissionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeInvalidOverrideKind, "kind is required")
	}

	if _, err := ParseKind(r.Kind); err != nil {
		return err
	}
	_, err := r.Scope()
	return err
}

// Scope builds the typed scope the request addresses.
func (r *SetPermissionRequest) Scope() (Scope, error) {
	role, err := ParseRole(r.Role)
	if err != nil {
		return Scope{}, err
	}
	var s Scope
	if r.Username != "" {
		s = UserScope(r.Username, role)
	} else {
		s = RoleScope(role)
	}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// SetPermissionCommand is a validated SetPermissionRequest.
type SetPermissionCommand struct {
	Scope    Scope
	ModuleID string
	Kind     Kind
}

// Command converts a normalized, valid request into its typed form.
func (r *SetPermissionRequest) Command() (SetPermissionCommand, error) {
	if err := r.Validate(); err != nil {
		return SetPermissionCommand{}, err
	}
	scope, err := r.Scope()
	if err != nil {
		return SetPermissionCommand{}, err
	}
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return SetPermissionCommand{}, err
	}
	return SetPermissionCommand{Scope: scope, ModuleID: r.ModuleID, Kind: kind}, nil
}
