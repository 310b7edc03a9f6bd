package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against the server at STUDYHUB_URL.
// Every scenario logs users in, so start the server with
// DISABLE_RATE_LIMITING=true.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("STUDYHUB_URL")
	if baseURL == "" {
		t.Skip("STUDYHUB_URL not set")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			tc := NewTestContext(baseURL)
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				*tc = *NewTestContext(baseURL)
				return ctx, nil
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}
