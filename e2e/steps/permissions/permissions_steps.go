package permissions

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	AuthenticateAs(username, role string) error
	GET(path string) error
	POST(path string, body any) error
	DELETE(path string) error
	LastStatus() int
	LastBody() string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers permission administration and access steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &permissionSteps{tc: tc}

	ctx.Step(`^all permission overrides are reset$`, s.resetAll)
	ctx.Step(`^the administrator (grants|revokes) "([^"]*)" for role "([^"]*)"$`, s.setForRole)
	ctx.Step(`^the administrator (grants|revokes) "([^"]*)" for user "([^"]*)" with role "([^"]*)"$`, s.setForUser)
	ctx.Step(`^I request my modules$`, s.myModules)
	ctx.Step(`^my modules should be "([^"]*)"$`, s.myModulesShouldBe)
	ctx.Step(`^my modules should include "([^"]*)"$`, s.myModulesShouldInclude)
	ctx.Step(`^my modules should not include "([^"]*)"$`, s.myModulesShouldNotInclude)
	ctx.Step(`^the latest audit entry should have action "([^"]*)"$`, s.latestAuditAction)
}

type permissionSteps struct {
	tc TestContext
}

func (s *permissionSteps) asAdmin() error {
	return s.tc.AuthenticateAs("carlos", "ADMIN")
}

func (s *permissionSteps) resetAll(ctx context.Context) error {
	if err := s.asAdmin(); err != nil {
		return err
	}
	if err := s.tc.DELETE("/admin/permissions/reset-all"); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("reset-all returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func kindFor(verb string) string {
	if verb == "grants" {
		return "GRANT"
	}
	return "REVOKE"
}

func (s *permissionSteps) setForRole(ctx context.Context, verb, moduleID, role string) error {
	return s.set(map[string]string{"role": role, "module_id": moduleID, "kind": kindFor(verb)})
}

func (s *permissionSteps) setForUser(ctx context.Context, verb, moduleID, username, role string) error {
	return s.set(map[string]string{"role": role, "username": username, "module_id": moduleID, "kind": kindFor(verb)})
}

func (s *permissionSteps) set(body map[string]string) error {
	if err := s.asAdmin(); err != nil {
		return err
	}
	if err := s.tc.POST("/admin/permissions", body); err != nil {
		return err
	}
	if status := s.tc.LastStatus(); status != 200 && status != 201 {
		return fmt.Errorf("set permission returned %d: %s", status, s.tc.LastBody())
	}
	return nil
}

func (s *permissionSteps) myModules(ctx context.Context) error {
	return s.tc.GET("/permissions/my-modules")
}

func (s *permissionSteps) modules() ([]string, error) {
	raw, err := s.tc.GetResponseField("modules")
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("modules is not a list: %v", raw)
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, fmt.Sprint(v))
	}
	return out, nil
}

func (s *permissionSteps) myModulesShouldBe(ctx context.Context, want string) error {
	got, err := s.modules()
	if err != nil {
		return err
	}
	if strings.Join(got, ",") != want {
		return fmt.Errorf("expected modules %s, got %s", want, strings.Join(got, ","))
	}
	return nil
}

func (s *permissionSteps) myModulesShouldInclude(ctx context.Context, moduleID string) error {
	got, err := s.modules()
	if err != nil {
		return err
	}
	if !slices.Contains(got, moduleID) {
		return fmt.Errorf("expected %s in %v", moduleID, got)
	}
	return nil
}

func (s *permissionSteps) myModulesShouldNotInclude(ctx context.Context, moduleID string) error {
	got, err := s.modules()
	if err != nil {
		return err
	}
	if slices.Contains(got, moduleID) {
		return fmt.Errorf("did not expect %s in %v", moduleID, got)
	}
	return nil
}

func (s *permissionSteps) latestAuditAction(ctx context.Context, action string) error {
	if err := s.asAdmin(); err != nil {
		return err
	}
	if err := s.tc.GET("/admin/permissions/audit?limit=1"); err != nil {
		return err
	}
	raw, err := s.tc.GetResponseField("entries")
	if err != nil {
		return err
	}
	entries, ok := raw.([]any)
	if !ok || len(entries) == 0 {
		return fmt.Errorf("no audit entries: %s", s.tc.LastBody())
	}
	entry, _ := entries[0].(map[string]any)
	if got := fmt.Sprint(entry["action"]); got != action {
		return fmt.Errorf("expected latest action %s, got %s", action, got)
	}
	return nil
}
