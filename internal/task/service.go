// Package task owns personal and group to-dos. Every write is scoped by the
// assignee, so another user's task looks the same as a missing one.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studyhub/internal/docstore"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
)

const concept = "task"

type Service struct {
	tasks   *docstore.Collection[Task]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(ctx context.Context, engine docstore.Engine, opts ...Option) (*Service, error) {
	tasks, err := docstore.NewCollection[Task](ctx, engine, "tasks")
	if err != nil {
		return nil, fmt.Errorf("tasks collection: %w", err)
	}
	s := &Service{tasks: tasks, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) AddTask(ctx context.Context, user id.UserID, todo string) (*Task, error) {
	return s.add(ctx, &Task{Assigned: user, Todo: todo})
}

// AddGroupTask assigns todo to user within group. Group membership is the caller's check.
func (s *Service) AddGroupTask(ctx context.Context, user id.UserID, group id.GroupID, todo string) (*Task, error) {
	return s.add(ctx, &Task{Assigned: user, Todo: todo, Group: &group})
}

func (s *Service) add(ctx context.Context, t *Task) (_ *Task, err error) {
	defer func() { s.metrics.RecordOperation(concept, "add", err) }()

	if t.Todo == "" {
		return nil, ErrEmptyTodo
	}
	t.Status = id.TaskIncomplete
	if _, err := s.tasks.CreateOne(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create task")
	}
	return t, nil
}

// GetTasks lists every task assigned to user, personal and group alike, oldest first.
func (s *Service) GetTasks(ctx context.Context, user id.UserID) ([]Task, error) {
	return s.readMany(ctx, docstore.Eq("assigned", user))
}

func (s *Service) GetGroupTasks(ctx context.Context, group id.GroupID) ([]Task, error) {
	return s.readMany(ctx, docstore.Eq("group", group))
}

func (s *Service) CompleteTask(ctx context.Context, user id.UserID, taskID id.TaskID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "complete", err) }()

	err = s.tasks.UpdateOne(ctx, owned(user, taskID), docstore.Fields{"status": id.TaskCompleted})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrTaskNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete task")
	}
	return nil
}

func (s *Service) DeleteTask(ctx context.Context, user id.UserID, taskID id.TaskID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	if err := s.tasks.DeleteOne(ctx, owned(user, taskID)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrTaskNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete task")
	}
	return nil
}

func (s *Service) readMany(ctx context.Context, f docstore.Filter) ([]Task, error) {
	tasks, err := s.tasks.ReadMany(ctx, f, docstore.SortBy(docstore.FieldDateCreated, false))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
	}
	return tasks, nil
}

func owned(user id.UserID, taskID id.TaskID) docstore.Filter {
	return docstore.And(docstore.Eq(docstore.FieldID, taskID), docstore.Eq("assigned", user))
}
