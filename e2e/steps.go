package e2e

import (
	"github.com/cucumber/godog"

	"studyhub/e2e/steps/common"
	"studyhub/e2e/steps/social"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Accounts, sessions and response assertions
	common.RegisterSteps(ctx, tc)

	// Friends, groups and tasks
	social.RegisterSteps(ctx, tc)
}
