// Package message owns direct messages between users.
package message

import (
	"context"
	"fmt"
	"log/slog"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
)

const concept = "message"

type Service struct {
	messages  *docstore.Collection[Message]
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
	messages, err := docstore.NewCollection[Message](ctx, engine, "messages")
	if err != nil {
		return nil, fmt.Errorf("messages collection: %w", err)
	}
	s := &Service{messages: messages, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) SendMessage(ctx context.Context, from, to id.UserID, content string) (_ *Message, err error) {
	defer func() { s.metrics.RecordOperation(concept, "send", err) }()

	if from == to {
		return nil, ErrSelfMessage
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	m := &Message{From: from, To: to, Content: content}
	if _, err := s.messages.CreateOne(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send message")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.MessageSent, Actor: from.String(), Subject: to.String()})
	return m, nil
}

// GetMessages lists everything user sent or received, newest first.
func (s *Service) GetMessages(ctx context.Context, user id.UserID) ([]Message, error) {
	return s.readMany(ctx, docstore.Or(docstore.Eq("from", user), docstore.Eq("to", user)))
}

// GetMessagesBetween lists the conversation of u1 and u2 in both directions, newest first.
func (s *Service) GetMessagesBetween(ctx context.Context, u1, u2 id.UserID) ([]Message, error) {
	return s.readMany(ctx, docstore.Or(
		docstore.And(docstore.Eq("from", u1), docstore.Eq("to", u2)),
		docstore.And(docstore.Eq("from", u2), docstore.Eq("to", u1)),
	))
}

func (s *Service) readMany(ctx context.Context, f docstore.Filter) ([]Message, error) {
	messages, err := s.messages.ReadMany(ctx, f, docstore.SortBy(docstore.FieldDateCreated, true))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
	}
	return messages, nil
}
