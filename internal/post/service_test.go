package post

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	svc   *Service
	ctx   context.Context
	clock time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := New(s.ctx, docstore.NewMemoryEngine())
	s.Require().NoError(err)
	s.svc = svc
}

// at returns a context whose request time advances one second per call.
func (s *ServiceSuite) at() context.Context {
	s.clock = s.clock.Add(time.Second)
	return requestcontext.WithTime(s.ctx, s.clock)
}

func (s *ServiceSuite) TestCreateAndList() {
	ann, bob := id.UserID(uuid.New()), id.UserID(uuid.New())

	_, err := s.svc.Create(s.at(), ann, "first", nil)
	s.Require().NoError(err)
	_, err = s.svc.Create(s.at(), bob, "second", &Options{BackgroundColor: "#fff"})
	s.Require().NoError(err)
	_, err = s.svc.Create(s.at(), ann, "third", nil)
	s.Require().NoError(err)

	_, err = s.svc.Create(s.at(), ann, "", nil)
	s.Require().ErrorIs(err, ErrEmptyContent)

	all, err := s.svc.GetPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("third", all[0].Content, "newest first")
	s.Equal("#fff", all[1].Options.BackgroundColor)

	mine, err := s.svc.GetByAuthor(s.ctx, ann)
	s.Require().NoError(err)
	s.Len(mine, 2)
	for _, p := range mine {
		s.Equal(ann, p.Author)
	}
}

func (s *ServiceSuite) TestIsAuthor() {
	ann, bob := id.UserID(uuid.New()), id.UserID(uuid.New())
	p, err := s.svc.Create(s.at(), ann, "hello", nil)
	s.Require().NoError(err)

	s.NoError(s.svc.IsAuthor(s.ctx, ann, p.ID))

	err = s.svc.IsAuthor(s.ctx, bob, p.ID)
	s.Require().ErrorIs(err, ErrNotAuthor)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	err = s.svc.IsAuthor(s.ctx, ann, id.PostID(uuid.New()))
	s.Require().ErrorIs(err, ErrPostNotFound)
}

func (s *ServiceSuite) TestUpdate() {
	p, err := s.svc.Create(s.at(), id.UserID(uuid.New()), "draft", nil)
	s.Require().NoError(err)

	err = s.svc.Update(s.at(), p.ID, map[string]any{
		"content": "final",
		"options": map[string]any{"backgroundColor": "blue"},
	})
	s.Require().NoError(err)

	posts, err := s.svc.GetPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("final", posts[0].Content)
	s.Equal("blue", posts[0].Options.BackgroundColor)
	s.True(posts[0].DateUpdated.After(posts[0].DateCreated.Time))

	err = s.svc.Update(s.ctx, p.ID, map[string]any{"author": uuid.NewString()})
	s.Require().ErrorIs(err, ErrFieldNotAllowed)

	err = s.svc.Update(s.ctx, id.PostID(uuid.New()), map[string]any{"content": "x"})
	s.Require().ErrorIs(err, ErrPostNotFound)
}

func (s *ServiceSuite) TestDelete() {
	p, err := s.svc.Create(s.at(), id.UserID(uuid.New()), "bye", nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, p.ID))
	s.Require().ErrorIs(s.svc.Delete(s.ctx, p.ID), ErrPostNotFound)
}
