package social

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context social steps rely on.
type TestContext interface {
	Do(ctx context.Context, user, method, path string, body any) error
	Username(name string) string
	Display(name string) string
	LastStatus() int
	DecodeLast(v any) error
}

// RegisterSteps registers friend, group and task steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &socialSteps{tc: tc}

	// Friends
	ctx.Step(`^"([^"]*)" sends a friend request to "([^"]*)"$`, steps.sendFriendRequest)
	ctx.Step(`^"([^"]*)" accepts the friend request from "([^"]*)"$`, steps.acceptFriendRequest)
	ctx.Step(`^"([^"]*)" removes the friend "([^"]*)"$`, steps.removeFriend)
	ctx.Step(`^"([^"]*)" should have friends "([^"]*)"$`, steps.shouldHaveFriends)
	ctx.Step(`^"([^"]*)" should have no friends$`, steps.shouldHaveNoFriends)

	// Groups
	ctx.Step(`^"([^"]*)" creates the group "([^"]*)"$`, steps.createGroup)
	ctx.Step(`^"([^"]*)" joins the group "([^"]*)"$`, steps.joinGroup)
	ctx.Step(`^"([^"]*)" leaves the group "([^"]*)"$`, steps.leaveGroup)
	ctx.Step(`^"([^"]*)" removes "([^"]*)" from the group "([^"]*)"$`, steps.removeMember)
	ctx.Step(`^the group "([^"]*)" seen by "([^"]*)" should have members "([^"]*)"$`, steps.groupShouldHaveMembers)

	// Tasks
	ctx.Step(`^"([^"]*)" adds the task "([^"]*)" to the group "([^"]*)"$`, steps.addGroupTask)
	ctx.Step(`^"([^"]*)" should see (\d+) tasks? in the group "([^"]*)"$`, steps.shouldSeeGroupTasks)
}

type socialSteps struct {
	tc TestContext
}

func (s *socialSteps) sendFriendRequest(ctx context.Context, from, to string) error {
	return s.tc.Do(ctx, from, http.MethodPost, "/friend/requests/"+s.tc.Username(to), nil)
}

func (s *socialSteps) acceptFriendRequest(ctx context.Context, to, from string) error {
	return s.tc.Do(ctx, to, http.MethodPut, "/friend/accept/"+s.tc.Username(from), nil)
}

func (s *socialSteps) removeFriend(ctx context.Context, user, friend string) error {
	return s.tc.Do(ctx, user, http.MethodDelete, "/friends/"+s.tc.Username(friend), nil)
}

func (s *socialSteps) friends(ctx context.Context, user string) ([]string, error) {
	if err := s.tc.Do(ctx, user, http.MethodGet, "/friends", nil); err != nil {
		return nil, err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return nil, fmt.Errorf("list friends of %s: status %d", user, s.tc.LastStatus())
	}
	var names []string
	if err := s.tc.DecodeLast(&names); err != nil {
		return nil, err
	}
	return s.display(names), nil
}

func (s *socialSteps) shouldHaveFriends(ctx context.Context, user, want string) error {
	got, err := s.friends(ctx, user)
	if err != nil {
		return err
	}
	return sameNames(want, got)
}

func (s *socialSteps) shouldHaveNoFriends(ctx context.Context, user string) error {
	got, err := s.friends(ctx, user)
	if err != nil {
		return err
	}
	if len(got) != 0 {
		return fmt.Errorf("expected no friends, got %v", got)
	}
	return nil
}

func (s *socialSteps) createGroup(ctx context.Context, owner, name string) error {
	body := map[string]any{"name": s.tc.Username(name), "members": []string{}}
	return s.tc.Do(ctx, owner, http.MethodPost, "/groups", body)
}

func (s *socialSteps) joinGroup(ctx context.Context, user, name string) error {
	return s.tc.Do(ctx, user, http.MethodPost, "/groups/"+s.tc.Username(name)+"/join", nil)
}

func (s *socialSteps) leaveGroup(ctx context.Context, user, name string) error {
	return s.tc.Do(ctx, user, http.MethodPost, "/groups/"+s.tc.Username(name)+"/leave", nil)
}

func (s *socialSteps) removeMember(ctx context.Context, actor, member, name string) error {
	path := "/groups/" + s.tc.Username(name) + "/members/" + s.tc.Username(member)
	return s.tc.Do(ctx, actor, http.MethodDelete, path, nil)
}

func (s *socialSteps) groupShouldHaveMembers(ctx context.Context, name, viewer, want string) error {
	if err := s.tc.Do(ctx, viewer, http.MethodGet, "/groups/"+s.tc.Username(name), nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("get group %s: status %d", name, s.tc.LastStatus())
	}
	var group struct {
		Members []string `json:"members"`
	}
	if err := s.tc.DecodeLast(&group); err != nil {
		return err
	}
	return sameNames(want, s.display(group.Members))
}

func (s *socialSteps) addGroupTask(ctx context.Context, user, todo, name string) error {
	body := map[string]any{"todo": todo, "group": s.tc.Username(name)}
	return s.tc.Do(ctx, user, http.MethodPost, "/tasks", body)
}

func (s *socialSteps) shouldSeeGroupTasks(ctx context.Context, user string, want int, name string) error {
	if err := s.tc.Do(ctx, user, http.MethodGet, "/tasks/group/"+s.tc.Username(name), nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("list group tasks: status %d", s.tc.LastStatus())
	}
	var tasks []map[string]any
	if err := s.tc.DecodeLast(&tasks); err != nil {
		return err
	}
	if len(tasks) != want {
		return fmt.Errorf("expected %d tasks, got %d", want, len(tasks))
	}
	return nil
}

func (s *socialSteps) display(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = s.tc.Display(n)
	}
	return out
}

// sameNames compares a comma separated expectation with got, ignoring order.
func sameNames(want string, got []string) error {
	var expected []string
	for _, n := range strings.Split(want, ",") {
		if n = strings.TrimSpace(n); n != "" {
			expected = append(expected, n)
		}
	}
	slices.Sort(expected)
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if !slices.Equal(expected, sorted) {
		return fmt.Errorf("expected %v, got %v", expected, sorted)
	}
	return nil
}
