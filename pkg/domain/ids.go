// Package domain holds typed identifiers shared across packages.
//
// Each ID wraps a uuid.UUID so that an override ID can never be passed where
// an audit entry ID is expected. Parse functions are the trust boundary for
// IDs arriving from path parameters or request bodies.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "hospital/pkg/domain-errors"
)

// OverrideID identifies a persisted permission override.
type OverrideID uuid.UUID

// AuditEntryID identifies an audit log entry.
type AuditEntryID uuid.UUID

func (id OverrideID) String() string   { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id OverrideID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id AuditEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText encodes the ID as its canonical UUID string.
func (id OverrideID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses a canonical UUID string.
func (id *OverrideID) UnmarshalText(b []byte) error {
	parsed, err := ParseOverrideID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText encodes the ID as its canonical UUID string.
func (id AuditEntryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses a canonical UUID string.
func (id *AuditEntryID) UnmarshalText(b []byte) error {
	parsed, err := ParseAuditEntryID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewOverrideID returns a fresh random override ID.
func NewOverrideID() OverrideID { return OverrideID(uuid.New()) }

// NewAuditEntryID returns a fresh random audit entry ID.
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

// ParseOverrideID parses and validates an override ID.
func ParseOverrideID(s string) (OverrideID, error) {
	u, err := parseUUID(s, "override ID")
	return OverrideID(u), err
}

// ParseAuditEntryID parses and validates an audit entry ID.
func ParseAuditEntryID(s string) (AuditEntryID, error) {
	u, err := parseUUID(s, "audit entry ID")
	return AuditEntryID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", label)
	}
	// uuid.Parse also accepts urn and braced forms; cap the length first.
	if len(s) > 45 {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be nil", label)
	}
	return u, nil
}
