// Package friend owns friend requests and the symmetric friendships they turn into.
//
// A pair of users has at most one pending request (in either direction) and at
// most one friendship. Both rules are unique indexes on the unordered pair key,
// so concurrent senders cannot both win.
package friend

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
)

const concept = "friend"

type Service struct {
	friends   *docstore.Collection[Friendship]
	requests  *docstore.Collection[Request]
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
	friends, err := docstore.NewCollection[Friendship](ctx, engine, "friends", docstore.Unique("pair"))
	if err != nil {
		return nil, fmt.Errorf("friends collection: %w", err)
	}
	requests, err := docstore.NewCollection[Request](ctx, engine, "friendRequests", docstore.Unique("pair"))
	if err != nil {
		return nil, fmt.Errorf("friend requests collection: %w", err)
	}
	s := &Service{friends: friends, requests: requests, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SendRequest records a pending request from -> to. A request the other way
// round is not merged into a friendship; it blocks this one.
func (s *Service) SendRequest(ctx context.Context, from, to id.UserID) (_ *Request, err error) {
	defer func() { s.metrics.RecordOperation(concept, "send_request", err) }()

	if from == to {
		return nil, ErrSelfRequest
	}
	friends, err := s.IsFriend(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, alreadyFriends(from, to)
	}
	pair := pairKey(from, to)
	if _, err := s.requests.ReadOne(ctx, docstore.Eq("pair", pair)); err == nil {
		return nil, duplicateRequest(from, to)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load friend request")
	}

	req := &Request{From: from, To: to, Pair: pair}
	if _, err := s.requests.CreateOne(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, duplicateRequest(from, to)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create friend request")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.FriendRequestSent, Actor: from.String(), Subject: to.String()})
	return req, nil
}

// RemoveRequest withdraws a request the sender made.
func (s *Service) RemoveRequest(ctx context.Context, from, to id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "remove_request", err) }()
	return s.deleteRequest(ctx, from, to)
}

// AcceptRequest turns the request from -> to into a friendship. The friendship
// is written first so a failed insert leaves the request in place.
func (s *Service) AcceptRequest(ctx context.Context, from, to id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "accept_request", err) }()

	req, err := s.requests.ReadOne(ctx, directed(from, to))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return requestNotFound(from, to)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load friend request")
	}

	f := &Friendship{User1: from, User2: to, Pair: req.Pair}
	if _, err := s.friends.CreateOne(ctx, f); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return alreadyFriends(from, to)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create friendship")
	}
	if err := s.requests.DeleteOne(ctx, docstore.Eq(docstore.FieldID, req.ID)); err != nil &&
		!errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove accepted friend request")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.FriendRequestAccepted, Actor: to.String(), Subject: from.String()})
	return nil
}

// RejectRequest drops the request from -> to on behalf of its recipient.
func (s *Service) RejectRequest(ctx context.Context, from, to id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "reject_request", err) }()

	if err := s.deleteRequest(ctx, from, to); err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.FriendRequestRejected, Actor: to.String(), Subject: from.String()})
	return nil
}

func (s *Service) RemoveFriend(ctx context.Context, user, friend id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "remove_friend", err) }()

	if err := s.friends.DeleteOne(ctx, docstore.Eq("pair", pairKey(user, friend))); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(ErrFriendshipNotFound, dErrors.CodeNotFound,
				fmt.Sprintf("Friendship between %s and %s not found!", user, friend))
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove friendship")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.FriendRemoved, Actor: user.String(), Subject: friend.String()})
	return nil
}

// GetFriends returns the other side of each of user's friendships, once each.
func (s *Service) GetFriends(ctx context.Context, user id.UserID) ([]id.UserID, error) {
	friendships, err := s.friends.ReadMany(ctx,
		docstore.Or(docstore.Eq("user1", user), docstore.Eq("user2", user)),
		docstore.SortBy(docstore.FieldDateCreated, false))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list friends")
	}
	out := make([]id.UserID, 0, len(friendships))
	for _, f := range friendships {
		out = append(out, f.Other(user))
	}
	return strutil.Dedupe(out), nil
}

// GetRequests lists requests user sent or received, newest first.
func (s *Service) GetRequests(ctx context.Context, user id.UserID) ([]Request, error) {
	requests, err := s.requests.ReadMany(ctx,
		docstore.Or(docstore.Eq("from", user), docstore.Eq("to", user)),
		docstore.SortBy(docstore.FieldDateUpdated, true))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list friend requests")
	}
	return requests, nil
}

func (s *Service) IsFriend(ctx context.Context, u1, u2 id.UserID) (bool, error) {
	_, err := s.friends.ReadOne(ctx, docstore.Eq("pair", pairKey(u1, u2)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load friendship")
}

func (s *Service) deleteRequest(ctx context.Context, from, to id.UserID) error {
	if err := s.requests.DeleteOne(ctx, directed(from, to)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return requestNotFound(from, to)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove friend request")
	}
	return nil
}

func directed(from, to id.UserID) docstore.Filter {
	return docstore.And(docstore.Eq("from", from), docstore.Eq("to", to))
}

func alreadyFriends(u1, u2 id.UserID) error {
	return dErrors.Wrap(ErrAlreadyFriends, dErrors.CodeNotAllowed,
		fmt.Sprintf("%s and %s are already friends!", u1, u2))
}

func duplicateRequest(from, to id.UserID) error {
	return dErrors.Wrap(ErrDuplicateRequest, dErrors.CodeNotAllowed,
		fmt.Sprintf("Friend request between %s and %s already exists!", from, to))
}

func requestNotFound(from, to id.UserID) error {
	return dErrors.Wrap(ErrRequestNotFound, dErrors.CodeNotFound,
		fmt.Sprintf("Friend request from %s to %s does not exist!", from, to))
}
