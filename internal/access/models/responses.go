package models

// SetResult reports what SetPermission did to an override key.
// Changed is false for every no-op branch; Override is nil when the key
// ends with no row on file.
type SetResult struct {
	State        State     `json:"state"`
	Changed      bool      `json:"changed"`
	Action       Action    `json:"action,omitempty"`
	PreviousKind Kind      `json:"previous_kind,omitempty"`
	Override     *Override `json:"override,omitempty"`
}

// ResetResult reports how many overrides a reset removed.
type ResetResult struct {
	Deleted int `json:"deleted"`
}

// AccessCheckResponse answers a single module access check.
type AccessCheckResponse struct {
	ModuleID  string `json:"module_id"`
	HasAccess bool   `json:"has_access"`
}

// MyPermissionsResponse describes the caller's resolved access.
type MyPermissionsResponse struct {
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	IsAdmin  bool     `json:"is_admin"`
	Modules  []string `json:"modules"`
}

// OverrideListResponse wraps a list of overrides.
type OverrideListResponse struct {
	Overrides []*Override `json:"overrides"`
	Total     int         `json:"total"`
}

// RoleDefaultsResponse lists the static default modules of a role.
type RoleDefaultsResponse struct {
	Role    Role     `json:"role"`
	Modules []string `json:"modules"`
}
