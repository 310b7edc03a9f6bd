package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context account steps rely on.
type TestContext interface {
	Do(ctx context.Context, user, method, path string, body any) error
	Username(name string) string
	SetToken(user, token string)
	LastStatus() int
	LastField(field string) (string, error)
}

// RegisterSteps registers account, session and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^a registered user "([^"]*)"$`, steps.registeredUser)
	ctx.Step(`^registered users "([^"]*)" and "([^"]*)"$`, steps.registeredUsers)
	ctx.Step(`^"([^"]*)" logs out$`, steps.logout)
	ctx.Step(`^"([^"]*)" sends (GET|POST|PUT|PATCH|DELETE) "([^"]*)"$`, steps.send)
	ctx.Step(`^an anonymous client sends (GET|POST|PUT|PATCH|DELETE) "([^"]*)"$`, steps.sendAnonymous)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response message should be "([^"]*)"$`, steps.messageShouldBe)
	ctx.Step(`^the response error should be "([^"]*)" with description "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

var placeholder = regexp.MustCompile(`<([A-Za-z0-9_-]+)>`)

// path expands <name> placeholders into scenario usernames.
func (s *commonSteps) path(raw string) string {
	return placeholder.ReplaceAllStringFunc(raw, func(m string) string {
		return s.tc.Username(placeholder.FindStringSubmatch(m)[1])
	})
}

func (s *commonSteps) registeredUser(ctx context.Context, name string) error {
	username := s.tc.Username(name)
	body := map[string]any{
		"username": username,
		"password": "pw-" + name,
		"name":     name,
		"major":    "Computer Science",
		"year":     2,
		"courses":  []string{"CS 101"},
	}
	if err := s.tc.Do(ctx, "", http.MethodPost, "/users", body); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("register %s: status %d", name, s.tc.LastStatus())
	}

	login := map[string]any{"username": username, "password": "pw-" + name}
	if err := s.tc.Do(ctx, "", http.MethodPost, "/login", login); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("login %s: status %d", name, s.tc.LastStatus())
	}
	token, err := s.tc.LastField("token")
	if err != nil {
		return err
	}
	s.tc.SetToken(name, token)
	return nil
}

func (s *commonSteps) registeredUsers(ctx context.Context, first, second string) error {
	if err := s.registeredUser(ctx, first); err != nil {
		return err
	}
	return s.registeredUser(ctx, second)
}

func (s *commonSteps) logout(ctx context.Context, name string) error {
	return s.tc.Do(ctx, name, http.MethodPost, "/logout", nil)
}

func (s *commonSteps) send(ctx context.Context, name, method, path string) error {
	return s.tc.Do(ctx, name, method, s.path(path), nil)
}

func (s *commonSteps) sendAnonymous(ctx context.Context, method, path string) error {
	return s.tc.Do(ctx, "", method, s.path(path), nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want string) error {
	code, err := strconv.Atoi(want)
	if err != nil {
		return err
	}
	if got := s.tc.LastStatus(); got != code {
		return fmt.Errorf("expected status %d, got %d", code, got)
	}
	return nil
}

func (s *commonSteps) messageShouldBe(ctx context.Context, want string) error {
	got, err := s.tc.LastField("msg")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected msg %q, got %q", want, got)
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code, description string) error {
	got, err := s.tc.LastField("error")
	if err != nil {
		return err
	}
	if got != code {
		return fmt.Errorf("expected error %q, got %q", code, got)
	}
	desc, err := s.tc.LastField("error_description")
	if err != nil {
		return err
	}
	if desc != description {
		return fmt.Errorf("expected error_description %q, got %q", description, desc)
	}
	return nil
}
