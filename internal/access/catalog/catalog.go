// Package catalog is the immutable registry of hospital modules and the
// roles that may use each one by default.
//
// A Catalog is built once at startup and passed by constructor to the
// resolver and the administration service. Tests build their own with New.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"hospital/internal/access/models"
)

// Module describes one functional area. Everything except ID and
// DefaultRoles is display metadata for menu rendering.
type Module struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Path         string        `json:"path"`
	Icon         string        `json:"icon"`
	Description  string        `json:"description"`
	Color        string        `json:"color"`
	Category     string        `json:"category"`
	DefaultRoles []models.Role `json:"default_roles"`
	// Resources are the API resource names the module gates.
	Resources []string `json:"-"`
}

// HasDefault reports whether role is eligible for the module without overrides.
func (m Module) HasDefault(role models.Role) bool {
	return slices.Contains(m.DefaultRoles, role)
}

// Catalog is safe for concurrent use; it is never mutated after New returns.
type Catalog struct {
	modules []Module
	byID    map[string]int
	byRes   map[string][]string
}

// New builds a catalog from modules in menu order. Module ids must be
// non-empty and unique, and default roles must be valid.
func New(modules ...Module) (*Catalog, error) {
	c := &Catalog{
		modules: make([]Module, 0, len(modules)),
		byID:    make(map[string]int, len(modules)),
		byRes:   make(map[string][]string),
	}
	for _, m := range modules {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("catalog: module id cannot be empty")
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate module id %q", m.ID)
		}
		for _, r := range m.DefaultRoles {
			if !r.IsValid() {
				return nil, fmt.Errorf("catalog: module %q has invalid default role %q", m.ID, r)
			}
		}
		m.DefaultRoles = slices.Clone(m.DefaultRoles)
		m.Resources = slices.Clone(m.Resources)
		c.byID[m.ID] = len(c.modules)
		c.modules = append(c.modules, m)
		for _, res := range m.Resources {
			c.byRes[res] = append(c.byRes[res], m.ID)
		}
	}
	return c, nil
}

// MustNew is New for compiled-in tables; it panics on an invalid table.
func MustNew(modules ...Module) *Catalog {
	c, err := New(modules...)
	if err != nil {
		panic(err)
	}
	return c
}

// IDs returns every module id in menu order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.modules))
	for i, m := range c.modules {
		ids[i] = m.ID
	}
	return ids
}

// Modules returns a copy of every module in menu order.
func (c *Catalog) Modules() []Module {
	out := make([]Module, len(c.modules))
	for i, m := range c.modules {
		out[i] = cloneModule(m)
	}
	return out
}

// Module returns the module with the given id.
func (c *Catalog) Module(id string) (Module, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Module{}, false
	}
	return cloneModule(c.modules[i]), true
}

func (c *Catalog) IsValid(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// DefaultRolesFor returns the roles eligible for id by default, or nil for
// an unknown module.
func (c *Catalog) DefaultRolesFor(id string) []models.Role {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return slices.Clone(c.modules[i].DefaultRoles)
}

// IsDefault reports whether role may use id with no overrides on file.
// Unknown modules are a default for nobody.
func (c *Catalog) IsDefault(role models.Role, id string) bool {
	i, ok := c.byID[id]
	if !ok {
		return false
	}
	return c.modules[i].HasDefault(role)
}

// DefaultModulesFor returns the module ids role may use by default, in menu order.
func (c *Catalog) DefaultModulesFor(role models.Role) []string {
	var ids []string
	for _, m := range c.modules {
		if m.HasDefault(role) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ModulesForResource returns the modules that gate an API resource.
func (c *Catalog) ModulesForResource(resource string) []string {
	return slices.Clone(c.byRes[resource])
}

func cloneModule(m Module) Module {
	m.DefaultRoles = slices.Clone(m.DefaultRoles)
	m.Resources = slices.Clone(m.Resources)
	return m
}
