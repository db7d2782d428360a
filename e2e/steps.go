package e2e

import (
	"github.com/cucumber/godog"

	"hospital/e2e/steps/common"
	"hospital/e2e/steps/permissions"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	permissions.RegisterSteps(ctx, tc)
}
