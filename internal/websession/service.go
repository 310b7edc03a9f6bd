// Package websession maps session tokens to logged-in users.
package websession

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
	"studyhub/pkg/requestcontext"
)

// Store persists session records.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, sessionID id.SessionID) (*Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	DeleteByUser(ctx context.Context, userID id.UserID) (int, error)
}

const defaultTTL = 24 * time.Hour

// Service starts, resolves and ends sessions.
type Service struct {
	store   Store
	tokens  *Tokens
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

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

func New(store Store, tokens *Tokens, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens, ttl: defaultTTL, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start records a new session for userID and returns its token.
func (s *Service) Start(ctx context.Context, userID id.UserID, userAgent string) (string, error) {
	now := requestcontext.Now(ctx)
	session := &Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    userID,
		Device:    DeviceLabel(userAgent),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to start session")
	}
	token, err := s.tokens.Issue(session.ID, now, s.ttl)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}
	s.metrics.IncrementSessionsStarted()
	s.logger.InfoContext(ctx, "session started",
		"user_id", userID.String(),
		"session_id", session.ID.String(),
		"device", session.Device,
	)
	return token, nil
}

// End deletes the session behind token. Ending a missing or invalid session is a no-op.
func (s *Service) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := s.tokens.Parse(token, requestcontext.Now(ctx))
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, sid); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end session")
	}
	return nil
}

// EndAll deletes every session of userID.
func (s *Service) EndAll(ctx context.Context, userID id.UserID) error {
	n, err := s.store.DeleteByUser(ctx, userID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end sessions")
	}
	s.logger.InfoContext(ctx, "sessions ended", "user_id", userID.String(), "count", n)
	return nil
}

// Resolve returns the live session behind token, or ErrNotLoggedIn.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	sid, err := s.tokens.Parse(token, requestcontext.Now(ctx))
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	session, err := s.store.Find(ctx, sid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return nil, ErrNotLoggedIn
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return session, nil
}

// GetUser returns the user logged in with token.
func (s *Service) GetUser(ctx context.Context, token string) (id.UserID, error) {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return id.UserID{}, err
	}
	return session.UserID, nil
}

// IsLoggedOut fails with ErrAlreadyLoggedIn when token belongs to a live session.
func (s *Service) IsLoggedOut(ctx context.Context, token string) error {
	_, err := s.Resolve(ctx, token)
	switch {
	case err == nil:
		return ErrAlreadyLoggedIn
	case errors.Is(err, ErrNotLoggedIn):
		return nil
	default:
		return err
	}
}
