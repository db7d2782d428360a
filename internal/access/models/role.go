package models

import (
	"strings"

	dErrors "hospital/pkg/domain-errors"
)

// Role is the job function assigned to a user account. The set is closed.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleNurse        Role = "NURSE"
	RoleReceptionist Role = "RECEPTIONIST"
)

var allRoles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist}

// Roles returns every role in declaration order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole accepts a role name in any case. Unknown names are rejected;
// there is no fallback role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		if s == "" {
			return "", dErrors.New(dErrors.CodeValidation, "role is required")
		}
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown role: %s", s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist:
		return true
	}
	return false
}

// IsAdmin reports whether r bypasses module resolution entirely.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }

// Actor is the already-authenticated caller whose access is being decided.
type Actor struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewActor builds an actor from raw identity fields, rejecting a blank
// username or an unknown role.
func NewActor(username, role string) (Actor, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Actor{}, dErrors.New(dErrors.CodeUnauthorized, "actor username is required")
	}
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "actor role is not recognized")
	}
	return Actor{Username: username, Role: r}, nil
}

func (a Actor) IsAdmin() bool { return a.Role.IsAdmin() }
