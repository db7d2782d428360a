package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "hospital/pkg/domain"
	dErrors "hospital/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts any case", func(t *testing.T) {
		r, err := ParseRole(" nurse ")
		require.NoError(t, err)
		assert.Equal(t, RoleNurse, r)
	})

	t.Run("rejects unknown role without fallback", func(t *testing.T) {
		_, err := ParseRole("JANITOR")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseRole("")
		require.Error(t, err)
	})
}

func TestNewActor(t *testing.T) {
	a, err := NewActor("maria", "RECEPTIONIST")
	require.NoError(t, err)
	assert.Equal(t, Actor{Username: "maria", Role: RoleReceptionist}, a)
	assert.False(t, a.IsAdmin())

	_, err = NewActor("", "DOCTOR")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = NewActor("maria", "SUPERUSER")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("grant")
	require.NoError(t, err)
	assert.Equal(t, KindGrant, k)
	assert.True(t, k.Allows())

	_, err = ParseKind("ADDED")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidOverrideKind))
}

func TestScope(t *testing.T) {
	t.Run("role scope keys on role", func(t *testing.T) {
		s := RoleScope(RoleNurse)
		assert.True(t, s.IsRole())
		assert.Equal(t, "NURSE", s.Key())
		assert.Empty(t, s.Username())
		assert.NoError(t, s.Validate())
	})

	t.Run("user scope keys on username and keeps role for reference", func(t *testing.T) {
		s := UserScope(" maria ", RoleReceptionist)
		assert.True(t, s.IsUser())
		assert.Equal(t, "maria", s.Key())
		assert.Equal(t, RoleReceptionist, s.Role())
		assert.NoError(t, s.Validate())
	})

	t.Run("ADMIN is never a target", func(t *testing.T) {
		err := RoleScope(RoleAdmin).Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		err = UserScope("carlos", RoleAdmin).Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("zero scope is invalid", func(t *testing.T) {
		assert.Error(t, Scope{}.Validate())
	})

	t.Run("json round trip keeps the variant", func(t *testing.T) {
		raw, err := json.Marshal(UserScope("ana", RoleNurse))
		require.NoError(t, err)
		var got Scope
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, UserScope("ana", RoleNurse), got)
	})
}

func TestOverride(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	o, err := NewOverride(id.NewOverrideID(), RoleScope(RoleNurse), "triage", KindRevoke, now)
	require.NoError(t, err)
	assert.Equal(t, now, o.CreatedAt)

	later := now.Add(time.Hour)
	prev := o.ApplyKind(KindGrant, later)
	assert.Equal(t, KindRevoke, prev)
	assert.Equal(t, KindGrant, o.Kind)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, later, o.UpdatedAt)

	_, err = NewOverride(id.NewOverrideID(), RoleScope(RoleNurse), "", KindGrant, now)
	assert.Error(t, err)
}

func TestAuditFilterAndPage(t *testing.T) {
	e := &AuditEntry{TargetRole: RoleNurse, TargetUsername: "ana"}
	assert.True(t, AuditFilter{}.Matches(e))
	assert.True(t, AuditFilter{Role: RoleNurse}.Matches(e))
	assert.False(t, AuditFilter{Username: "maria"}.Matches(e))

	p := NewAuditPage(nil, 0, 20, 41)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Entries)
}

type SetPermissionRequestSuite struct {
	suite.Suite
}

func TestSetPermissionRequestSuite(t *testing.T) {
	suite.Run(t, new(SetPermissionRequestSuite))
}

func (s *SetPermissionRequestSuite) TestNormalizeAndCommand() {
	s.Run("role scope", func() {
		req := &SetPermissionRequest{Role: " nurse", ModuleID: " Triage ", Kind: "revoke"}
		req.Normalize()
		cmd, err := req.Command()
		s.Require().NoError(err)
		s.Equal(RoleScope(RoleNurse), cmd.Scope)
		s.Equal("triage", cmd.ModuleID)
		s.Equal(KindRevoke, cmd.Kind)
	})

	s.Run("username selects user scope", func() {
		req := &SetPermissionRequest{Role: "RECEPTIONIST", Username: "maria", ModuleID: "archivos", Kind: "GRANT"}
		req.Normalize()
		cmd, err := req.Command()
		s.Require().NoError(err)
		s.True(cmd.Scope.IsUser())
		s.Equal("maria", cmd.Scope.Username())
	})
}

func (s *SetPermissionRequestSuite) TestValidation() {
	cases := []struct {
		name string
		req  *SetPermissionRequest
		code dErrors.Code
	}{
		{"nil request", nil, dErrors.CodeBadRequest},
		{"missing role", &SetPermissionRequest{ModuleID: "citas", Kind: "GRANT"}, dErrors.CodeValidation},
		{"missing module", &SetPermissionRequest{Role: "DOCTOR", Kind: "GRANT"}, dErrors.CodeValidation},
		{"missing kind", &SetPermissionRequest{Role: "DOCTOR", ModuleID: "citas"}, dErrors.CodeInvalidOverrideKind},
		{"bad kind", &SetPermissionRequest{Role: "DOCTOR", ModuleID: "citas", Kind: "ADDED"}, dErrors.CodeInvalidOverrideKind},
		{"unknown role", &SetPermissionRequest{Role: "JANITOR", ModuleID: "citas", Kind: "GRANT"}, dErrors.CodeValidation},
		{"admin target", &SetPermissionRequest{Role: "ADMIN", ModuleID: "citas", Kind: "REVOKE"}, dErrors.CodeInvariantViolation},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := tc.req.Validate()
			s.Require().Error(err)
			s.Equal(tc.code, dErrors.CodeOf(err))
		})
	}
}

func (s *SetPermissionRequestSuite) TestValidationMessagesUseJSONNames() {
	err := (&SetPermissionRequest{Role: "DOCTOR", Kind: "GRANT"}).Validate()
	s.Equal("module_id is required", dErrors.MessageOf(err))

	long := &SetPermissionRequest{Role: "DOCTOR", ModuleID: "citas", Kind: "GRANT", Username: strings.Repeat("a", 101)}
	err = long.Validate()
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	s.Equal("username must be 100 characters or less", dErrors.MessageOf(err))
}
