// Package status owns each user's presence and current assignment.
package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"studyhub/internal/docstore"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
)

const concept = "status"

type Service struct {
	statuses *docstore.Collection[Status]
	logger   *slog.Logger
	metrics  *metrics.Metrics
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
	statuses, err := docstore.NewCollection[Status](ctx, engine, "statuses", docstore.Unique("owner"))
	if err != nil {
		return nil, fmt.Errorf("statuses collection: %w", err)
	}
	s := &Service{statuses: statuses, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create stores the default status for owner: active, no assignment.
func (s *Service) Create(ctx context.Context, owner id.UserID) (_ *Status, err error) {
	defer func() { s.metrics.RecordOperation(concept, "create", err) }()

	st := &Status{Owner: owner, Status: id.PresenceActive, CurAssignment: ""}
	if _, err := s.statuses.CreateOne(ctx, st); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, ErrStatusExists
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create status")
	}
	return st, nil
}

func (s *Service) GetStatus(ctx context.Context, owner id.UserID) (*Status, error) {
	st, err := s.statuses.ReadOne(ctx, docstore.Eq("owner", owner))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status")
	}
	return st, nil
}

// Update changes status and/or curAssignment. status must name a known presence.
func (s *Service) Update(ctx context.Context, owner id.UserID, update map[string]any) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "update", err) }()

	set := make(docstore.Fields, len(update))
	for field, value := range update {
		str, ok := value.(string)
		switch field {
		case "status":
			if !ok {
				return dErrors.New(dErrors.CodeBadRequest, "status must be a string")
			}
			presence, err := id.ParsePresence(str)
			if err != nil {
				return err
			}
			set[field] = presence
		case "curAssignment":
			if !ok {
				return dErrors.New(dErrors.CodeBadRequest, "curAssignment must be a string")
			}
			set[field] = str
		default:
			return dErrors.Wrap(ErrFieldNotAllowed, dErrors.CodeNotAllowed,
				fmt.Sprintf("Cannot update '%s' field!", field))
		}
	}
	if len(set) == 0 {
		return nil
	}
	if err := s.statuses.UpdateOne(ctx, docstore.Eq("owner", owner), set); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrStatusNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update status")
	}
	return nil
}

// IsSameAssignment reports whether both users are on the same non-empty assignment.
func (s *Service) IsSameAssignment(ctx context.Context, u1, u2 id.UserID) (bool, error) {
	var first, second *Status
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.GetStatus(gctx, u1)
		first = st
		return err
	})
	g.Go(func() error {
		st, err := s.GetStatus(gctx, u2)
		second = st
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return first.CurAssignment != "" && first.CurAssignment == second.CurAssignment, nil
}

func (s *Service) Delete(ctx context.Context, owner id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	if err := s.statuses.DeleteOne(ctx, docstore.Eq("owner", owner)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrStatusNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete status")
	}
	return nil
}
