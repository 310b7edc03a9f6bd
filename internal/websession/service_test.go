package websession

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store *InMemoryStore
	svc   *Service
	ctx   context.Context
	now   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Now().Truncate(time.Second)
	s.store = NewInMemoryStore()
	s.store.now = func() time.Time { return s.now }
	s.svc = New(s.store, NewTokens("test-signing-key", "studyhub-test"), WithTTL(time.Hour))
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TestStartAndGetUser() {
	userID := id.UserID(uuid.New())

	token, err := s.svc.Start(s.ctx, userID, "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	s.Require().NoError(err)
	s.NotEmpty(token)

	got, err := s.svc.GetUser(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(userID, got)

	session, err := s.svc.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Contains(session.Device, "Firefox")
}

func (s *ServiceSuite) TestGetUserRejectsMissingAndForgedTokens() {
	s.Run("empty token", func() {
		_, err := s.svc.GetUser(s.ctx, "")
		s.Require().ErrorIs(err, ErrNotLoggedIn)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("token signed with another key", func() {
		other := New(s.store, NewTokens("other-key", "studyhub-test"))
		token, err := other.Start(s.ctx, id.UserID(uuid.New()), "")
		s.Require().NoError(err)

		_, err = s.svc.GetUser(s.ctx, token)
		s.Require().ErrorIs(err, ErrNotLoggedIn)
	})

	s.Run("garbage", func() {
		_, err := s.svc.GetUser(s.ctx, "not.a.jwt")
		s.Require().ErrorIs(err, ErrNotLoggedIn)
	})
}

func (s *ServiceSuite) TestEndInvalidatesToken() {
	token, err := s.svc.Start(s.ctx, id.UserID(uuid.New()), "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.End(s.ctx, token))

	_, err = s.svc.GetUser(s.ctx, token)
	s.Require().ErrorIs(err, ErrNotLoggedIn)

	s.Require().NoError(s.svc.End(s.ctx, token), "ending twice is a no-op")
}

func (s *ServiceSuite) TestExpiredSession() {
	token, err := s.svc.Start(s.ctx, id.UserID(uuid.New()), "")
	s.Require().NoError(err)

	s.now = s.now.Add(2 * time.Hour)
	later := requestcontext.WithTime(context.Background(), s.now)

	_, err = s.svc.GetUser(later, token)
	s.Require().ErrorIs(err, ErrNotLoggedIn)
}

func (s *ServiceSuite) TestIsLoggedOut() {
	s.Require().NoError(s.svc.IsLoggedOut(s.ctx, ""))

	token, err := s.svc.Start(s.ctx, id.UserID(uuid.New()), "")
	s.Require().NoError(err)

	err = s.svc.IsLoggedOut(s.ctx, token)
	s.Require().ErrorIs(err, ErrAlreadyLoggedIn)
}

func (s *ServiceSuite) TestEndAll() {
	userID := id.UserID(uuid.New())
	first, err := s.svc.Start(s.ctx, userID, "")
	s.Require().NoError(err)
	second, err := s.svc.Start(s.ctx, userID, "")
	s.Require().NoError(err)
	bystander, err := s.svc.Start(s.ctx, id.UserID(uuid.New()), "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.EndAll(s.ctx, userID))

	for _, tok := range []string{first, second} {
		_, err := s.svc.GetUser(s.ctx, tok)
		s.Require().ErrorIs(err, ErrNotLoggedIn)
	}
	_, err = s.svc.GetUser(s.ctx, bystander)
	s.Require().NoError(err)
}
