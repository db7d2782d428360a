package models

import (
	"encoding/json"
	"strings"
	"time"

	id "hospital/pkg/domain"
	dErrors "hospital/pkg/domain-errors"
)

// Kind is the direction of an administrator decision.
type Kind string

const (
	KindGrant  Kind = "GRANT"
	KindRevoke Kind = "REVOKE"
)

// ParseKind accepts GRANT or REVOKE in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidOverrideKind, "kind must be GRANT or REVOKE, got %q", s)
	}
	return k, nil
}

func (k Kind) IsValid() bool { return k == KindGrant || k == KindRevoke }

// Allows reports whether applying k leaves the module accessible.
func (k Kind) Allows() bool { return k == KindGrant }

func (k Kind) String() string { return string(k) }

// KindFor returns the kind that moves a key to the given access decision.
func KindFor(allowed bool) Kind {
	if allowed {
		return KindGrant
	}
	return KindRevoke
}

// ScopeType discriminates the two override tiers.
type ScopeType string

const (
	ScopeRole ScopeType = "role"
	ScopeUser ScopeType = "user"
)

// Scope names the key an override is attached to: a whole role, or one user.
//
// Invariants:
//   - role scope: Role is the key, Username is empty
//   - user scope: Username is the key, Role is carried for reference only
//
// The fields are unexported; build a Scope with RoleScope or UserScope.
type Scope struct {
	typ      ScopeType
	role     Role
	username string
}

func RoleScope(role Role) Scope {
	return Scope{typ: ScopeRole, role: role}
}

func UserScope(username string, role Role) Scope {
	return Scope{typ: ScopeUser, username: strings.TrimSpace(username), role: role}
}

func (s Scope) Type() ScopeType  { return s.typ }
func (s Scope) IsRole() bool     { return s.typ == ScopeRole }
func (s Scope) IsUser() bool     { return s.typ == ScopeUser }
func (s Scope) Role() Role       { return s.role }
func (s Scope) Username() string { return s.username }

// Key returns the active scope key: the role name or the username.
func (s Scope) Key() string {
	if s.IsUser() {
		return s.username
	}
	return string(s.role)
}

func (s Scope) String() string {
	return string(s.typ) + ":" + s.Key()
}

// Validate checks the scope invariants. ADMIN is never a valid target:
// it always resolves to full access and must not be locked out.
func (s Scope) Validate() error {
	switch s.typ {
	case ScopeRole:
		if !s.role.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "role scope requires a valid role")
		}
	case ScopeUser:
		if s.username == "" {
			return dErrors.New(dErrors.CodeValidation, "user scope requires a username")
		}
		if len(s.username) > 100 {
			return dErrors.New(dErrors.CodeValidation, "username must be 100 characters or less")
		}
		if !s.role.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "user scope requires the user's role")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "scope must be role or user")
	}
	if s.role.IsAdmin() {
		return dErrors.New(dErrors.CodeInvariantViolation, "ADMIN access cannot be overridden")
	}
	return nil
}

type scopeJSON struct {
	Type     ScopeType `json:"type"`
	Role     Role      `json:"role,omitempty"`
	Username string    `json:"username,omitempty"`
}

func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(scopeJSON{Type: s.typ, Role: s.role, Username: s.username})
}

func (s *Scope) UnmarshalJSON(b []byte) error {
	var raw scopeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case ScopeRole:
		*s = RoleScope(raw.Role)
	case ScopeUser:
		*s = UserScope(raw.Username, raw.Role)
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown scope type %q", raw.Type)
	}
	return nil
}

// Override is one explicit administrator decision for a (scope key, module) pair.
//
// Invariants:
//   - at most one Override exists per (Scope.Key(), ModuleID) within a scope type
//   - Kind is GRANT or REVOKE
//   - CreatedAt is immutable after construction
type Override struct {
	ID        id.OverrideID `json:"id"`
	Scope     Scope         `json:"scope"`
	ModuleID  string        `json:"module_id"`
	Kind      Kind          `json:"kind"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewOverride(overrideID id.OverrideID, scope Scope, moduleID string, kind Kind, now time.Time) (*Override, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if moduleID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "module_id cannot be empty")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidOverrideKind, "kind must be GRANT or REVOKE")
	}
	return &Override{
		ID:        overrideID,
		Scope:     scope,
		ModuleID:  moduleID,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyKind switches the override to kind and returns the previous kind.
func (o *Override) ApplyKind(kind Kind, now time.Time) Kind {
	prev := o.Kind
	o.Kind = kind
	o.UpdatedAt = now
	return prev
}

// State is the effective state of an override key as reported to administrators.
type State string

const (
	// StateGranted means an explicit GRANT row is on file.
	StateGranted State = "GRANTED"
	// StateRevoked means an explicit REVOKE row is on file.
	StateRevoked State = "REVOKED"
	// StateDefault means no row is on file and the static default applies.
	StateDefault State = "DEFAULT"
	// StateInherited means no user row is on file and role resolution applies.
	StateInherited State = "INHERITED"
)

// StateFor maps a persisted kind to the state it represents.
func StateFor(kind Kind) State {
	if kind == KindGrant {
		return StateGranted
	}
	return StateRevoked
}
