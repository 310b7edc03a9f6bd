package user

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	svc       *Service
	publisher *events.MemoryPublisher
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.publisher = events.NewMemoryPublisher()
	svc, err := New(s.ctx, docstore.NewMemoryEngine(),
		WithHasher(BcryptHasher{Cost: bcrypt.MinCost}),
		WithPublisher(s.publisher),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) TestCreate() {
	s.Run("stores a hashed credential and hides it", func() {
		view, err := s.svc.Create(s.ctx, "ann", "secret")
		s.Require().NoError(err)
		s.Equal("ann", view.Username)
		s.False(view.ID.IsNil())

		stored, err := s.svc.users.ReadOne(s.ctx, docstore.Eq("username", "ann"))
		s.Require().NoError(err)
		s.NotEqual("secret", stored.Password)
		s.Equal([]events.Type{events.UserCreated}, s.publisher.Types())
	})

	s.Run("duplicate username is rejected", func() {
		_, err := s.svc.Create(s.ctx, "ann", "other")
		s.Require().ErrorIs(err, ErrUsernameNotUnique)
		s.True(dErrors.HasCode(err, dErrors.CodeNotAllowed))

		all, err := s.svc.GetUsers(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("usernames are case sensitive", func() {
		_, err := s.svc.Create(s.ctx, "Ann", "secret")
		s.Require().NoError(err)
	})

	s.Run("empty credentials are rejected", func() {
		_, err := s.svc.Create(s.ctx, "", "x")
		s.Require().ErrorIs(err, ErrMissingCredentials)
		_, err = s.svc.Create(s.ctx, "bob", "")
		s.Require().ErrorIs(err, ErrMissingCredentials)
	})
}

func (s *ServiceSuite) TestAuthenticate() {
	created, err := s.svc.Create(s.ctx, "ann", "secret")
	s.Require().NoError(err)

	got, err := s.svc.Authenticate(s.ctx, "ann", "secret")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = s.svc.Authenticate(s.ctx, "ann", "wrong")
	s.Require().ErrorIs(err, ErrAuthentication)

	_, err = s.svc.Authenticate(s.ctx, "nobody", "secret")
	s.Require().ErrorIs(err, ErrAuthentication)
}

func (s *ServiceSuite) TestLookups() {
	ann, err := s.svc.Create(s.ctx, "ann", "pw")
	s.Require().NoError(err)
	bob, err := s.svc.Create(s.ctx, "bob", "pw")
	s.Require().NoError(err)

	s.Run("by id and username", func() {
		got, err := s.svc.GetUserByID(s.ctx, ann.ID)
		s.Require().NoError(err)
		s.Equal("ann", got.Username)

		got, err = s.svc.GetUserByUsername(s.ctx, "bob")
		s.Require().NoError(err)
		s.Equal(bob.ID, got.ID)

		_, err = s.svc.GetUserByUsername(s.ctx, "carol")
		s.Require().ErrorIs(err, ErrUserNotFound)
	})

	s.Run("ids to usernames keeps order and marks deleted users", func() {
		ghost := id.UserID(uuid.New())
		names, err := s.svc.IdsToUsernames(s.ctx, []id.UserID{bob.ID, ghost, ann.ID, bob.ID})
		s.Require().NoError(err)
		s.Equal([]string{"bob", DeletedUsername, "ann", "bob"}, names)
	})

	s.Run("usernames to ids", func() {
		ids, err := s.svc.UsernamesToIDs(s.ctx, []string{"bob", "ann"})
		s.Require().NoError(err)
		s.Equal([]id.UserID{bob.ID, ann.ID}, ids)

		_, err = s.svc.UsernamesToIDs(s.ctx, []string{"ann", "nobody"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdate() {
	ann, err := s.svc.Create(s.ctx, "ann", "pw")
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, "bob", "pw")
	s.Require().NoError(err)

	s.Run("renames and rehashes", func() {
		s.Require().NoError(s.svc.Update(s.ctx, ann.ID, map[string]any{"username": "annie", "password": "new"}))
		_, err := s.svc.Authenticate(s.ctx, "annie", "new")
		s.Require().NoError(err)
	})

	s.Run("rename onto a taken username fails", func() {
		err := s.svc.Update(s.ctx, ann.ID, map[string]any{"username": "bob"})
		s.Require().ErrorIs(err, ErrUsernameNotUnique)
	})

	s.Run("other fields are refused", func() {
		err := s.svc.Update(s.ctx, ann.ID, map[string]any{"_id": "x"})
		s.Require().ErrorIs(err, ErrFieldNotAllowed)
	})

	s.Run("wrong type is a bad request", func() {
		err := s.svc.Update(s.ctx, ann.ID, map[string]any{"username": 7})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestDelete() {
	ann, err := s.svc.Create(s.ctx, "ann", "pw")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, ann.ID))
	_, err = s.svc.GetUserByID(s.ctx, ann.ID)
	s.Require().ErrorIs(err, ErrUserNotFound)
	s.Require().ErrorIs(s.svc.Delete(s.ctx, ann.ID), ErrUserNotFound)

	_, err = s.svc.Create(s.ctx, "ann", "pw")
	s.Require().NoError(err, "a deleted username is free again")
}

// TestConcurrentCreateSameUsername verifies exactly one of many racing sign-ups wins.
func (s *ServiceSuite) TestConcurrentCreateSameUsername() {
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, dupCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Create(s.ctx, "contested", "pw")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrUsernameNotUnique):
				dupCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), dupCount.Load())
}
