package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"hospital/internal/access/catalog"
	"hospital/internal/access/metrics"
	"hospital/internal/access/models"
	"hospital/internal/access/store/override"
	id "hospital/pkg/domain"
)

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	catalog  *catalog.Catalog
	store    *override.InMemoryStore
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = catalog.Default()
	s.store = override.NewInMemoryStore()
	s.resolver = New(s.catalog, s.store,
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())))
}

func (s *ResolverSuite) actor(role models.Role, username string) models.Actor {
	return models.Actor{Username: username, Role: role}
}

func (s *ResolverSuite) put(scope models.Scope, moduleID string, kind models.Kind) {
	o, err := models.NewOverride(id.NewOverrideID(), scope, moduleID, kind, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, o))
}

func (s *ResolverSuite) hasAccess(a models.Actor, moduleID string) bool {
	ok, err := s.resolver.HasAccess(s.ctx, a, moduleID)
	s.Require().NoError(err)
	return ok
}

func (s *ResolverSuite) TestDefaultsWithoutOverrides() {
	for _, role := range models.Roles() {
		a := s.actor(role, "someone")
		for _, m := range s.catalog.Modules() {
			s.Equal(m.HasDefault(role), s.hasAccess(a, m.ID), "role %s module %s", role, m.ID)
		}
	}
}

func (s *ResolverSuite) TestAdminIgnoresOverrides() {
	// A store that fails proves admin checks never read overrides.
	r := New(s.catalog, failingReader{})
	admin := s.actor(models.RoleAdmin, "carlos")

	for _, m := range s.catalog.IDs() {
		ok, err := r.HasAccess(s.ctx, admin, m)
		s.Require().NoError(err)
		s.True(ok)
	}

	ok, err := r.HasAccess(s.ctx, admin, "rayos-x")
	s.Require().NoError(err)
	s.True(ok, "admin passes even for modules outside the catalog")

	ids, err := r.AccessibleModules(s.ctx, admin)
	s.Require().NoError(err)
	s.Equal(s.catalog.IDs(), ids)
}

func (s *ResolverSuite) TestUnknownModuleDeniedWithoutStoreAccess() {
	r := New(s.catalog, failingReader{})
	ok, err := r.HasAccess(s.ctx, s.actor(models.RoleDoctor, "luis"), "rayos-x")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ResolverSuite) TestRoleRevokeThenUserGrant() {
	s.put(models.RoleScope(models.RoleNurse), "triage", models.KindRevoke)

	ana := s.actor(models.RoleNurse, "ana")
	lucia := s.actor(models.RoleNurse, "lucia")
	s.False(s.hasAccess(ana, "triage"))
	s.False(s.hasAccess(lucia, "triage"))

	s.put(models.UserScope("ana", models.RoleNurse), "triage", models.KindGrant)
	s.True(s.hasAccess(ana, "triage"))
	s.False(s.hasAccess(lucia, "triage"), "other nurses stay denied")
}

func (s *ResolverSuite) TestUserRevokeBeatsRoleGrant() {
	s.put(models.RoleScope(models.RoleReceptionist), "examenes", models.KindGrant)
	s.put(models.UserScope("maria", models.RoleReceptionist), "examenes", models.KindRevoke)

	s.False(s.hasAccess(s.actor(models.RoleReceptionist, "maria"), "examenes"))
	s.True(s.hasAccess(s.actor(models.RoleReceptionist, "ana"), "examenes"))
}

func (s *ResolverSuite) TestOverridesForOtherRolesDoNotLeak() {
	s.put(models.RoleScope(models.RoleDoctor), "triage", models.KindGrant)
	s.False(s.hasAccess(s.actor(models.RoleReceptionist, "maria"), "triage"))
	s.True(s.hasAccess(s.actor(models.RoleDoctor, "luis"), "triage"))
}

func (s *ResolverSuite) TestOverrideOnUnknownModuleIgnored() {
	s.put(models.RoleScope(models.RoleNurse), "rayos-x", models.KindGrant)

	ids, err := s.resolver.AccessibleModules(s.ctx, s.actor(models.RoleNurse, "ana"))
	s.Require().NoError(err)
	s.NotContains(ids, "rayos-x")
	s.Equal(s.catalog.DefaultModulesFor(models.RoleNurse), ids)
}

func (s *ResolverSuite) TestAccessibleModulesKeepsCatalogOrder() {
	s.put(models.UserScope("maria", models.RoleReceptionist), "archivos", models.KindGrant)
	s.put(models.UserScope("maria", models.RoleReceptionist), "calendario", models.KindRevoke)

	ids, err := s.resolver.AccessibleModules(s.ctx, s.actor(models.RoleReceptionist, "maria"))
	s.Require().NoError(err)
	s.Equal([]string{"dashboard", "citas", "pacientes", "doctores", "archivos"}, ids)

	configs, err := s.resolver.AccessibleModuleConfigs(s.ctx, s.actor(models.RoleReceptionist, "maria"))
	s.Require().NoError(err)
	s.Require().Len(configs, len(ids))
	s.Equal("Archivos Clínicos", configs[4].Name)
}

func (s *ResolverSuite) TestHasAnyAccess() {
	nurse := s.actor(models.RoleNurse, "ana")

	ok, err := s.resolver.HasAnyAccess(s.ctx, nurse, "recetas", "triage")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.resolver.HasAnyAccess(s.ctx, nurse, "recetas", "reportes")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.resolver.HasAnyAccess(s.ctx, nurse)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ResolverSuite) TestHasResourceAccess() {
	receptionist := s.actor(models.RoleReceptionist, "maria")

	ok, err := s.resolver.HasResourceAccess(s.ctx, receptionist, "patients")
	s.Require().NoError(err)
	s.True(ok, "pacientes is a default module for receptionists")

	ok, err = s.resolver.HasResourceAccess(s.ctx, receptionist, "prescriptions")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.resolver.HasResourceAccess(s.ctx, receptionist, "no-such-resource")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ResolverSuite) TestRoleHasAccessIgnoresUserOverrides() {
	s.put(models.UserScope("maria", models.RoleReceptionist), "archivos", models.KindGrant)

	ok, err := s.resolver.RoleHasAccess(s.ctx, models.RoleReceptionist, "archivos")
	s.Require().NoError(err)
	s.False(ok)

	s.put(models.RoleScope(models.RoleReceptionist), "archivos", models.KindGrant)
	ok, err = s.resolver.RoleHasAccess(s.ctx, models.RoleReceptionist, "archivos")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ResolverSuite) TestWithReaderSwapsSource() {
	other := override.NewInMemoryStore()
	o, err := models.NewOverride(id.NewOverrideID(), models.RoleScope(models.RoleNurse), "reportes", models.KindGrant, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(other.Create(s.ctx, o))

	nurse := s.actor(models.RoleNurse, "ana")
	s.False(s.hasAccess(nurse, "reportes"))

	ok, err := s.resolver.WithReader(other).HasAccess(s.ctx, nurse, "reportes")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ResolverSuite) TestStoreFailurePropagates() {
	r := New(s.catalog, failingReader{})
	_, err := r.HasAccess(s.ctx, s.actor(models.RoleNurse, "ana"), "triage")
	s.Require().Error(err)
	s.ErrorIs(err, errStoreDown)

	_, err = r.AccessibleModules(s.ctx, s.actor(models.RoleNurse, "ana"))
	s.ErrorIs(err, errStoreDown)
}

func TestCustomCatalog(t *testing.T) {
	c, err := catalog.New(
		catalog.Module{ID: "archivos", DefaultRoles: []models.Role{models.RoleAdmin}},
		catalog.Module{ID: "agenda", DefaultRoles: []models.Role{models.RoleReceptionist}},
	)
	require.NoError(t, err)

	r := New(c, override.NewInMemoryStore())
	ids, err := r.AccessibleModules(context.Background(), models.Actor{Username: "maria", Role: models.RoleReceptionist})
	require.NoError(t, err)
	assert.Equal(t, []string{"agenda"}, ids)
}

var errStoreDown = errors.New("store down")

type failingReader struct{}

func (failingReader) ListByRole(context.Context, models.Role) ([]*models.Override, error) {
	return nil, errStoreDown
}

func (failingReader) ListByUsername(context.Context, string) ([]*models.Override, error) {
	return nil, errStoreDown
}
