package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	AuthenticateAs(username, role string) error
	ClearToken()
	GET(path string) error
	LastStatus() int
	LastBody() string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers authentication, request and status assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &commonSteps{tc: tc}
	ctx.Step(`^I am authenticated as "([^"]*)" with role "([^"]*)"$`, s.authenticateAs)
	ctx.Step(`^I am not authenticated$`, s.notAuthenticated)
	ctx.Step(`^I GET "([^"]*)"$`, s.get)
	ctx.Step(`^the response status should be (\d+)$`, s.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.fieldShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) authenticateAs(ctx context.Context, username, role string) error {
	return s.tc.AuthenticateAs(username, role)
}

func (s *commonSteps) notAuthenticated(ctx context.Context) error {
	s.tc.ClearToken()
	return nil
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, status int) error {
	if s.tc.LastStatus() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, want string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s=%q, got %v", field, want, got)
	}
	return nil
}
