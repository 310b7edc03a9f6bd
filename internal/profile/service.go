// Package profile owns the per-user academic profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"studyhub/internal/docstore"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
	strutil "studyhub/pkg/platform/strings"
)

const concept = "profile"

type Service struct {
	profiles *docstore.Collection[Profile]
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

// New binds the profiles collection. owner is unique: one profile per user.
func New(ctx context.Context, engine docstore.Engine, opts ...Option) (*Service, error) {
	profiles, err := docstore.NewCollection[Profile](ctx, engine, "profiles", docstore.Unique("owner"))
	if err != nil {
		return nil, fmt.Errorf("profiles collection: %w", err)
	}
	s := &Service{profiles: profiles, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, owner id.UserID, name, major string, year int, courses []string) (_ *Profile, err error) {
	defer func() { s.metrics.RecordOperation(concept, "create", err) }()

	if courses == nil {
		courses = []string{}
	}
	p := &Profile{
		Owner:   owner,
		Name:    name,
		Major:   major,
		Year:    year,
		Courses: strutil.DedupeAndTrim(courses),
	}
	if _, err := s.profiles.CreateOne(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, ErrProfileExists
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, owner id.UserID) (*Profile, error) {
	p, err := s.profiles.ReadOne(ctx, docstore.Eq("owner", owner))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

func (s *Service) GetProfiles(ctx context.Context) ([]Profile, error) {
	profiles, err := s.profiles.ReadMany(ctx, docstore.All(), docstore.SortBy(docstore.FieldDateCreated, false))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return profiles, nil
}

// Update applies a partial update restricted to name, major, year and courses.
// The whole update is validated before anything is written.
func (s *Service) Update(ctx context.Context, owner id.UserID, update map[string]any) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "update", err) }()

	set, err := sanitizeUpdate(update)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return nil
	}
	if err := s.profiles.UpdateOne(ctx, docstore.Eq("owner", owner), set); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrProfileNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, owner id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	if err := s.profiles.DeleteOne(ctx, docstore.Eq("owner", owner)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrProfileNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
	}
	return nil
}

func sanitizeUpdate(update map[string]any) (docstore.Fields, error) {
	set := make(docstore.Fields, len(update))
	for field, value := range update {
		switch field {
		case "name", "major":
			str, ok := value.(string)
			if !ok {
				return nil, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a string", field)
			}
			set[field] = str
		case "year":
			year, err := YearFrom(value)
			if err != nil {
				return nil, err
			}
			set[field] = year
		case "courses":
			courses, err := CoursesFrom(value)
			if err != nil {
				return nil, err
			}
			set[field] = courses
		default:
			return nil, dErrors.Wrap(ErrFieldNotAllowed, dErrors.CodeNotAllowed,
				fmt.Sprintf("Cannot update '%s' field!", field))
		}
	}
	return set, nil
}

// YearFrom accepts a decoded JSON number or a numeric string.
func YearFrom(v any) (int, error) {
	switch y := v.(type) {
	case float64:
		if y != math.Trunc(y) {
			return 0, ErrInvalidYear
		}
		return int(y), nil
	case int:
		return y, nil
	case string:
		return ParseYear(y)
	}
	return 0, ErrInvalidYear
}

// CoursesFrom accepts a decoded JSON array of strings or a comma separated string.
func CoursesFrom(v any) ([]string, error) {
	switch c := v.(type) {
	case string:
		return ParseCourses(c), nil
	case []string:
		return strutil.DedupeAndTrim(c), nil
	case []any:
		out := make([]string, 0, len(c))
		for _, el := range c {
			str, ok := el.(string)
			if !ok {
				return nil, dErrors.New(dErrors.CodeBadRequest, "courses must be a list of strings")
			}
			out = append(out, str)
		}
		return strutil.DedupeAndTrim(out), nil
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "courses must be a list of strings")
}
