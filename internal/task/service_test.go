package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

type ServiceSuite struct {
	suite.Suite
	svc      *Service
	ctx      context.Context
	ann, bob id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	svc, err := New(s.ctx, docstore.NewMemoryEngine())
	s.Require().NoError(err)
	s.svc = svc
	s.ann, s.bob = id.UserID(uuid.New()), id.UserID(uuid.New())
}

func (s *ServiceSuite) TestAdd() {
	t, err := s.svc.AddTask(s.ctx, s.ann, "read chapter 4")
	s.Require().NoError(err)
	s.Equal(id.TaskIncomplete, t.Status)
	s.Nil(t.Group)

	group := id.GroupID(uuid.New())
	gt, err := s.svc.AddGroupTask(s.ctx, s.bob, group, "write intro")
	s.Require().NoError(err)
	s.Require().NotNil(gt.Group)
	s.Equal(group, *gt.Group)

	_, err = s.svc.AddTask(s.ctx, s.ann, "")
	s.Require().ErrorIs(err, ErrEmptyTodo)

	groupTasks, err := s.svc.GetGroupTasks(s.ctx, group)
	s.Require().NoError(err)
	s.Require().Len(groupTasks, 1)
	s.Equal("write intro", groupTasks[0].Todo)

	annTasks, err := s.svc.GetTasks(s.ctx, s.ann)
	s.Require().NoError(err)
	s.Len(annTasks, 1)
}

func (s *ServiceSuite) TestCompleteIsScopedByAssignee() {
	t, err := s.svc.AddTask(s.ctx, s.ann, "pset")
	s.Require().NoError(err)

	s.Require().ErrorIs(s.svc.CompleteTask(s.ctx, s.bob, t.ID), ErrTaskNotFound)
	s.Require().NoError(s.svc.CompleteTask(s.ctx, s.ann, t.ID))

	tasks, err := s.svc.GetTasks(s.ctx, s.ann)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(id.TaskCompleted, tasks[0].Status)
}

func (s *ServiceSuite) TestDeleteIsScopedByAssignee() {
	t, err := s.svc.AddTask(s.ctx, s.ann, "pset")
	s.Require().NoError(err)

	s.Require().ErrorIs(s.svc.DeleteTask(s.ctx, s.bob, t.ID), ErrTaskNotFound)
	s.Require().NoError(s.svc.DeleteTask(s.ctx, s.ann, t.ID))
	s.Require().ErrorIs(s.svc.DeleteTask(s.ctx, s.ann, t.ID), ErrTaskNotFound)
}
