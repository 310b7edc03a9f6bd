//go:build integration

package websession_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"studyhub/internal/websession"
	id "studyhub/pkg/domain"
	"studyhub/pkg/platform/sentinel"
	"studyhub/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *websession.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = websession.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(userID id.UserID, ttl time.Duration) *websession.Session {
	now := time.Now().UTC()
	return &websession.Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    userID,
		Device:    "Firefox on Linux",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *RedisStoreSuite) TestSaveFindDelete() {
	ctx := context.Background()
	session := makeSession(id.UserID(uuid.New()), time.Hour)

	s.Require().NoError(s.store.Save(ctx, session))

	found, err := s.store.Find(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.UserID, found.UserID)
	s.Equal(session.Device, found.Device)

	ttl, err := s.redis.Client.TTL(ctx, "session:"+session.ID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)

	s.Require().NoError(s.store.Delete(ctx, session.ID))
	_, err = s.store.Find(ctx, session.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Delete(ctx, session.ID), sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDeleteByUser() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	a, b := makeSession(userID, time.Hour), makeSession(userID, time.Hour)
	other := makeSession(id.UserID(uuid.New()), time.Hour)
	for _, sess := range []*websession.Session{a, b, other} {
		s.Require().NoError(s.store.Save(ctx, sess))
	}

	n, err := s.store.DeleteByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal(2, n)

	_, err = s.store.Find(ctx, a.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Find(ctx, other.ID)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestSaveRejectsExpired() {
	session := makeSession(id.UserID(uuid.New()), -time.Minute)
	s.Require().ErrorIs(s.store.Save(context.Background(), session), sentinel.ErrExpired)
}
