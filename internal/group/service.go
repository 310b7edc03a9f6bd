// Package group owns named groups, their member sets and their chat log.
//
// Group names are unique through a store index. Member changes are
// read-modify-write cycles guarded by the document version: a writer that
// lost the race re-reads and tries again.
package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
	strutil "studyhub/pkg/platform/strings"
	"studyhub/pkg/requestcontext"
)

const (
	concept = "group"

	maxUpdateAttempts = 3
)

type Service struct {
	groups    *docstore.Collection[Group]
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
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

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(ctx context.Context, engine docstore.Engine, opts ...Option) (*Service, error) {
	groups, err := docstore.NewCollection[Group](ctx, engine, "groups", docstore.Unique("name"))
	if err != nil {
		return nil, fmt.Errorf("groups collection: %w", err)
	}
	s := &Service{groups: groups, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create stores a new group. members must include owner; repeats are dropped.
func (s *Service) Create(ctx context.Context, name string, owner id.UserID, members []id.UserID) (_ *Group, err error) {
	defer func() { s.metrics.RecordOperation(concept, "create", err) }()

	if name == "" {
		return nil, ErrEmptyName
	}
	members = strutil.Dedupe(members)
	g := &Group{Name: name, Owner: owner, Members: members, Messages: []Message{}}
	if !g.IsMember(owner) {
		return nil, ErrOwnerMustBeMember
	}
	if _, err := s.groups.ReadOne(ctx, docstore.Eq("name", name)); err == nil {
		return nil, nameTaken(name)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group")
	}

	if _, err := s.groups.CreateOne(ctx, g); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, nameTaken(name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create group")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.GroupCreated, Actor: owner.String(), Subject: name})
	return g, nil
}

func (s *Service) GetGroupByName(ctx context.Context, name string) (*Group, error) {
	g, err := s.groups.ReadOne(ctx, docstore.Eq("name", name))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group")
	}
	return g, nil
}

// GetGroups lists the groups user belongs to, oldest first.
func (s *Service) GetGroups(ctx context.Context, user id.UserID) ([]Group, error) {
	groups, err := s.groups.ReadMany(ctx, docstore.Contains("members", user),
		docstore.SortBy(docstore.FieldDateCreated, false))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list groups")
	}
	return groups, nil
}

func (s *Service) Join(ctx context.Context, user id.UserID, name string) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "join", err) }()

	_, err = s.mutate(ctx, name, func(g *Group) error {
		if g.IsMember(user) {
			return dErrors.Wrap(ErrAlreadyMember, dErrors.CodeNotAllowed,
				fmt.Sprintf("User %s already in group %s!", user, g.Name))
		}
		g.Members = append(g.Members, user)
		return nil
	})
	if err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.GroupJoined, Actor: user.String(), Subject: name})
	return nil
}

func (s *Service) Leave(ctx context.Context, user id.UserID, name string) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "leave", err) }()

	if _, err := s.mutate(ctx, name, leaving(user)); err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.GroupLeft, Actor: user.String(), Subject: name})
	return nil
}

// RemoveMember lets the owner take member out of the group.
func (s *Service) RemoveMember(ctx context.Context, actor id.UserID, name string, member id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "remove_member", err) }()

	_, err = s.mutate(ctx, name, func(g *Group) error {
		if g.Owner != actor {
			return notOwner(actor, g)
		}
		return leaving(member)(g)
	})
	if err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.GroupMemberRemoved, Actor: actor.String(), Subject: name})
	return nil
}

// Delete removes the group. Only its owner may.
func (s *Service) Delete(ctx context.Context, actor id.UserID, name string) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	g, err := s.GetGroupByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.IsGroupOwner(ctx, actor, g.ID); err != nil {
		return err
	}
	if err := s.groups.DeleteOne(ctx, docstore.Eq(docstore.FieldID, g.ID)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrGroupNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete group")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.GroupDeleted, Actor: actor.String(), Subject: name})
	return nil
}

// IsGroupOwner returns ErrNotGroupOwner unless user owns the group.
func (s *Service) IsGroupOwner(ctx context.Context, user id.UserID, groupID id.GroupID) error {
	g, err := s.groups.ReadOne(ctx, docstore.Eq(docstore.FieldID, groupID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrGroupNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group")
	}
	if g.Owner != user {
		return notOwner(user, g)
	}
	return nil
}

// SendGroupMessage appends to the group's log. Only members may post.
func (s *Service) SendGroupMessage(ctx context.Context, user id.UserID, name, content string) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "send_message", err) }()

	if content == "" {
		return ErrEmptyMessage
	}
	sent := docstore.NewTimestamp(requestcontext.Now(ctx))
	_, err = s.mutate(ctx, name, func(g *Group) error {
		if !g.IsMember(user) {
			return notAMember(user, g)
		}
		g.Messages = append(g.Messages, Message{From: user, Content: content, Sent: sent})
		return nil
	})
	return err
}

// GetGroupMessages returns the log in send order. Only members may read it.
func (s *Service) GetGroupMessages(ctx context.Context, user id.UserID, name string) ([]Message, error) {
	g, err := s.GetGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !g.IsMember(user) {
		return nil, notAMember(user, g)
	}
	if g.Messages == nil {
		return []Message{}, nil
	}
	return g.Messages, nil
}

// mutate loads the group, applies fn and writes it back if nobody else wrote
// in between. fn sees a fresh copy on every attempt.
func (s *Service) mutate(ctx context.Context, name string, fn func(*Group) error) (*Group, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		g, err := s.GetGroupByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := fn(g); err != nil {
			return nil, err
		}
		err = s.groups.ReplaceIfVersion(ctx, g)
		switch {
		case err == nil:
			return g, nil
		case errors.Is(err, sentinel.ErrConflict):
			s.logger.DebugContext(ctx, "group version moved, retrying",
				"group", name,
				"attempt", attempt,
			)
			continue
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, ErrGroupNotFound
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update group")
		}
	}
	return nil, ErrConcurrentUpdate
}

func leaving(user id.UserID) func(*Group) error {
	return func(g *Group) error {
		if !g.IsMember(user) {
			return notAMember(user, g)
		}
		if g.Owner == user {
			return ErrOwnerCannotLeave
		}
		g.removeMember(user)
		return nil
	}
}

func nameTaken(name string) error {
	return dErrors.Wrap(ErrNameNotUnique, dErrors.CodeNotAllowed,
		fmt.Sprintf("Group with name %s already exists!", name))
}

func notAMember(user id.UserID, g *Group) error {
	return dErrors.Wrap(ErrNotAMember, dErrors.CodeNotFound,
		fmt.Sprintf("User %s not found in group %s!", user, g.Name))
}

func notOwner(user id.UserID, g *Group) error {
	return dErrors.Wrap(ErrNotGroupOwner, dErrors.CodeUnauthorized,
		fmt.Sprintf("User %s is not the owner of group %s!", user, g.Name))
}
