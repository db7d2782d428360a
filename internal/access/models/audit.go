package models

import (
	"time"

	id "hospital/pkg/domain"
)

// Action is the kind of mutation an audit entry records.
type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionUpdated   Action = "UPDATED"
	ActionDeleted   Action = "DELETED"
	ActionResetRole Action = "RESET_ROLE"
	ActionResetUser Action = "RESET_USER"
	ActionResetAll  Action = "RESET_ALL"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionResetRole, ActionResetUser, ActionResetAll:
		return true
	}
	return false
}

// IsReset reports whether the action is a bulk reset.
func (a Action) IsReset() bool {
	return a == ActionResetRole || a == ActionResetUser || a == ActionResetAll
}

// AuditEntry is an immutable record of one permission mutation.
// Empty string fields are absent values: a reset has no ModuleID, a delete
// that ends at the default state has no NewKind, a creation has no PreviousKind.
type AuditEntry struct {
	ID             id.AuditEntryID `json:"id"`
	Action         Action          `json:"action"`
	TargetRole     Role            `json:"target_role,omitempty"`
	TargetUsername string          `json:"target_username,omitempty"`
	ModuleID       string          `json:"module_id,omitempty"`
	NewKind        Kind            `json:"new_kind,omitempty"`
	PreviousKind   Kind            `json:"previous_kind,omitempty"`
	AffectedCount  int             `json:"affected_count,omitempty"`
	PerformedBy    string          `json:"performed_by"`
	PerformedAt    time.Time       `json:"performed_at"`
	Description    string          `json:"description,omitempty"`
}

// AuditFilter narrows a paginated audit query. Empty fields match everything.
type AuditFilter struct {
	Role     Role
	Username string
}

// IsEmpty reports whether the filter matches every entry.
func (f AuditFilter) IsEmpty() bool { return f.Role == "" && f.Username == "" }

// Matches reports whether e satisfies the filter.
func (f AuditFilter) Matches(e *AuditEntry) bool {
	if f.Role != "" && e.TargetRole != f.Role {
		return false
	}
	if f.Username != "" && e.TargetUsername != f.Username {
		return false
	}
	return true
}

// AuditPage is one page of audit entries, newest first. Page is zero-based.
type AuditPage struct {
	Entries    []*AuditEntry `json:"entries"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// NewAuditPage computes the page count for total entries at the given size.
func NewAuditPage(entries []*AuditEntry, page, size, total int) *AuditPage {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if entries == nil {
		entries = []*AuditEntry{}
	}
	return &AuditPage{Entries: entries, Page: page, Size: size, Total: total, TotalPages: pages}
}
