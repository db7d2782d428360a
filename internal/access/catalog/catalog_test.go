package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/access/models"
)

func TestDefault(t *testing.T) {
	c := Default()

	t.Run("lists all seventeen modules", func(t *testing.T) {
		assert.Len(t, c.IDs(), 17)
		assert.Equal(t, "dashboard", c.IDs()[0])
	})

	t.Run("default role table", func(t *testing.T) {
		assert.Equal(t, []string{
			"dashboard", "citas", "calendario", "pacientes", "doctores",
			"historia-clinica", "notas-medicas", "recetas", "examenes", "referencias", "reportes",
		}, c.DefaultModulesFor(models.RoleDoctor))
		assert.Equal(t, []string{
			"dashboard", "citas", "calendario", "pacientes", "doctores",
			"historia-clinica", "triage", "hospitalizacion", "gestion-camas", "enfermeria",
		}, c.DefaultModulesFor(models.RoleNurse))
		assert.Equal(t, []string{"dashboard", "citas", "calendario", "pacientes", "doctores"},
			c.DefaultModulesFor(models.RoleReceptionist))
		assert.Len(t, c.DefaultModulesFor(models.RoleAdmin), 17)
	})

	t.Run("archivos is admin only", func(t *testing.T) {
		assert.Equal(t, []models.Role{models.RoleAdmin}, c.DefaultRolesFor("archivos"))
		assert.False(t, c.IsDefault(models.RoleReceptionist, "archivos"))
	})

	t.Run("unknown module is a default for nobody", func(t *testing.T) {
		assert.False(t, c.IsValid("rayos-x"))
		assert.Nil(t, c.DefaultRolesFor("rayos-x"))
		assert.False(t, c.IsDefault(models.RoleDoctor, "rayos-x"))
		_, ok := c.Module("rayos-x")
		assert.False(t, ok)
	})

	t.Run("resource mapping", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"hospitalizacion"}, c.ModulesForResource("beds"))
		assert.Contains(t, c.ModulesForResource("patients"), "triage")
		assert.Empty(t, c.ModulesForResource("billing"))
	})

	t.Run("returned modules are copies", func(t *testing.T) {
		m, ok := c.Module("triage")
		require.True(t, ok)
		m.DefaultRoles[0] = models.RoleReceptionist
		assert.Equal(t, models.RoleAdmin, c.DefaultRolesFor("triage")[0])
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New(Module{ID: "a"}, Module{ID: "a"})
		assert.Error(t, err)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := New(Module{ID: " "})
		assert.Error(t, err)
	})

	t.Run("rejects unknown default role", func(t *testing.T) {
		_, err := New(Module{ID: "a", DefaultRoles: []models.Role{"JANITOR"}})
		assert.Error(t, err)
	})

	t.Run("alternate catalogs are independent", func(t *testing.T) {
		c, err := New(Module{ID: "archivos", DefaultRoles: []models.Role{models.RoleAdmin}})
		require.NoError(t, err)
		assert.Equal(t, []string{"archivos"}, c.IDs())
	})
}
