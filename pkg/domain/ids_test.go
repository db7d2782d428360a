package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hospital/pkg/domain-errors"
)

// TestParseUUID_Invariants checks that IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseOverrideID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseOverrideID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseOverrideID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseOverrideID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, OverrideID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
	})
}

func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE permission_overrides;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOverride := ParseOverrideID(tt.input)
			_, errAudit := ParseAuditEntryID(tt.input)
			if tt.wantErr {
				require.Error(t, errOverride)
				require.Error(t, errAudit)
				assert.True(t, dErrors.HasCode(errOverride, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errOverride)
				require.NoError(t, errAudit)
			}
		})
	}
}

func TestIDs_JSON(t *testing.T) {
	t.Run("override ID encodes as a string", func(t *testing.T) {
		id := NewOverrideID()
		raw, err := json.Marshal(struct {
			ID OverrideID `json:"id"`
		}{ID: id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(raw))
	})

	t.Run("decoding rejects a nil UUID", func(t *testing.T) {
		var v struct {
			ID AuditEntryID `json:"id"`
		}
		err := json.Unmarshal([]byte(`{"id":"`+uuid.Nil.String()+`"}`), &v)
		require.Error(t, err)
	})

	t.Run("fresh IDs are never nil", func(t *testing.T) {
		assert.False(t, NewOverrideID().IsNil())
		assert.False(t, NewAuditEntryID().IsNil())
		assert.True(t, OverrideID{}.IsNil())
	})
}
