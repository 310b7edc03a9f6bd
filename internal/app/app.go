// Package app composes the concepts into the operations the HTTP routes expose.
// Every concept is constructed once here and shared by reference.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	"studyhub/internal/friend"
	"studyhub/internal/group"
	"studyhub/internal/message"
	"studyhub/internal/platform/metrics"
	"studyhub/internal/post"
	"studyhub/internal/profile"
	"studyhub/internal/responses"
	"studyhub/internal/status"
	"studyhub/internal/task"
	"studyhub/internal/user"
	"studyhub/internal/websession"
	id "studyhub/pkg/domain"
)

// App holds one instance of each concept.
type App struct {
	Users    *user.Service
	Sessions *websession.Service
	Profiles *profile.Service
	Statuses *status.Service
	Posts    *post.Service
	Friends  *friend.Service
	Groups   *group.Service
	Messages *message.Service
	Tasks    *task.Service
	Shaper   *responses.Shaper

	logger *slog.Logger
}

// Deps are the collaborators shared by every concept.
type Deps struct {
	Engine    docstore.Engine
	Sessions  *websession.Service
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// New constructs every concept over deps.Engine.
func New(ctx context.Context, deps Deps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	a := &App{Sessions: deps.Sessions, logger: logger}

	var err error
	if a.Users, err = user.New(ctx, deps.Engine,
		user.WithLogger(logger), user.WithMetrics(deps.Metrics), user.WithPublisher(publisher)); err != nil {
		return nil, fmt.Errorf("user concept: %w", err)
	}
	if a.Profiles, err = profile.New(ctx, deps.Engine,
		profile.WithLogger(logger), profile.WithMetrics(deps.Metrics)); err != nil {
		return nil, fmt.Errorf("profile concept: %w", err)
	}
	if a.Statuses, err = status.New(ctx, deps.Engine,
		status.WithLogger(logger), status.WithMetrics(deps.Metrics)); err != nil {
		return nil, fmt.Errorf("status concept: %w", err)
	}
	if a.Posts, err = post.New(ctx, deps.Engine,
		post.WithLogger(logger), post.WithMetrics(deps.Metrics)); err != nil {
		return nil, fmt.Errorf("post concept: %w", err)
	}
	if a.Friends, err = friend.New(ctx, deps.Engine,
		friend.WithLogger(logger), friend.WithMetrics(deps.Metrics), friend.WithPublisher(publisher)); err != nil {
		return nil, fmt.Errorf("friend concept: %w", err)
	}
	if a.Groups, err = group.New(ctx, deps.Engine,
		group.WithLogger(logger), group.WithMetrics(deps.Metrics), group.WithPublisher(publisher)); err != nil {
		return nil, fmt.Errorf("group concept: %w", err)
	}
	if a.Messages, err = message.New(ctx, deps.Engine,
		message.WithLogger(logger), message.WithMetrics(deps.Metrics), message.WithPublisher(publisher)); err != nil {
		return nil, fmt.Errorf("message concept: %w", err)
	}
	if a.Tasks, err = task.New(ctx, deps.Engine,
		task.WithLogger(logger), task.WithMetrics(deps.Metrics)); err != nil {
		return nil, fmt.Errorf("task concept: %w", err)
	}
	a.Shaper = responses.NewShaper(a.Users)
	return a, nil
}

// userID resolves a username from a path parameter.
func (a *App) userID(ctx context.Context, username string) (id.UserID, error) {
	u, err := a.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return id.UserID{}, err
	}
	return u.ID, nil
}

const maxLookups = 8

func errgroupWithLimit(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)
	return g, gctx
}
