package app

import (
	"context"

	"studyhub/internal/group"
	"studyhub/internal/responses"
	"studyhub/internal/task"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
)

func (a *App) GetGroups(ctx context.Context, userID id.UserID) ([]responses.GroupView, error) {
	groups, err := a.Groups.GetGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Shaper.Groups(ctx, groups)
}

func (a *App) GetGroup(ctx context.Context, name string) (*responses.GroupView, error) {
	g, err := a.Groups.GetGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	view, err := a.Shaper.Group(ctx, *g)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateGroup creates a group owned by the caller. The owner is always a member;
// the other members are given by username.
func (a *App) CreateGroup(ctx context.Context, owner id.UserID, name string, members []string) (*responses.GroupView, error) {
	ids, err := a.Users.UsernamesToIDs(ctx, members)
	if err != nil {
		return nil, err
	}
	g, err := a.Groups.Create(ctx, name, owner, append([]id.UserID{owner}, ids...))
	if err != nil {
		return nil, err
	}
	view, err := a.Shaper.Group(ctx, *g)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (a *App) JoinGroup(ctx context.Context, userID id.UserID, name string) error {
	return a.Groups.Join(ctx, userID, name)
}

func (a *App) LeaveGroup(ctx context.Context, userID id.UserID, name string) error {
	return a.Groups.Leave(ctx, userID, name)
}

func (a *App) RemoveGroupMember(ctx context.Context, actor id.UserID, name, member string) error {
	memberID, err := a.userID(ctx, member)
	if err != nil {
		return err
	}
	return a.Groups.RemoveMember(ctx, actor, name, memberID)
}

func (a *App) DeleteGroup(ctx context.Context, actor id.UserID, name string) error {
	return a.Groups.Delete(ctx, actor, name)
}

func (a *App) GetGroupMessages(ctx context.Context, userID id.UserID, name string) ([]responses.GroupMessageView, error) {
	messages, err := a.Groups.GetGroupMessages(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return a.Shaper.GroupMessages(ctx, messages)
}

func (a *App) SendGroupMessage(ctx context.Context, userID id.UserID, name, content string) error {
	return a.Groups.SendGroupMessage(ctx, userID, name, content)
}

// AddTask assigns a to-do to the caller, on behalf of groupName when set.
// Group tasks require membership.
func (a *App) AddTask(ctx context.Context, userID id.UserID, todo, groupName string) (*task.Task, error) {
	if groupName == "" {
		return a.Tasks.AddTask(ctx, userID, todo)
	}
	g, err := a.memberGroup(ctx, userID, groupName)
	if err != nil {
		return nil, err
	}
	return a.Tasks.AddGroupTask(ctx, userID, g.ID, todo)
}

func (a *App) GetTasks(ctx context.Context, userID id.UserID) ([]task.Task, error) {
	return a.Tasks.GetTasks(ctx, userID)
}

// GetGroupTasks lists the tasks filed for a group. Only members may see them.
func (a *App) GetGroupTasks(ctx context.Context, userID id.UserID, groupName string) ([]task.Task, error) {
	g, err := a.memberGroup(ctx, userID, groupName)
	if err != nil {
		return nil, err
	}
	return a.Tasks.GetGroupTasks(ctx, g.ID)
}

func (a *App) CompleteTask(ctx context.Context, userID id.UserID, taskID id.TaskID) error {
	return a.Tasks.CompleteTask(ctx, userID, taskID)
}

func (a *App) DeleteTask(ctx context.Context, userID id.UserID, taskID id.TaskID) error {
	return a.Tasks.DeleteTask(ctx, userID, taskID)
}

func (a *App) memberGroup(ctx context.Context, userID id.UserID, name string) (*group.Group, error) {
	g, err := a.Groups.GetGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !g.IsMember(userID) {
		return nil, dErrors.Wrap(group.ErrNotAMember, dErrors.CodeNotFound, "You are not a member of group "+name+"!")
	}
	return g, nil
}
