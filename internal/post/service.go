// Package post owns authored posts.
package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studyhub/internal/docstore"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
)

const concept = "post"

type Service struct {
	posts   *docstore.Collection[Post]
	logger  *slog.Logger
	metrics *metrics.Metrics
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
	posts, err := docstore.NewCollection[Post](ctx, engine, "posts")
	if err != nil {
		return nil, fmt.Errorf("posts collection: %w", err)
	}
	s := &Service{posts: posts, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, author id.UserID, content string, options *Options) (_ *Post, err error) {
	defer func() { s.metrics.RecordOperation(concept, "create", err) }()

	if content == "" {
		return nil, ErrEmptyContent
	}
	p := &Post{Author: author, Content: content, Options: options}
	if _, err := s.posts.CreateOne(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create post")
	}
	return p, nil
}

// GetPosts lists every post, newest first.
func (s *Service) GetPosts(ctx context.Context) ([]Post, error) {
	return s.readMany(ctx, docstore.All())
}

// GetByAuthor lists one author's posts, newest first.
func (s *Service) GetByAuthor(ctx context.Context, author id.UserID) ([]Post, error) {
	return s.readMany(ctx, docstore.Eq("author", author))
}

func (s *Service) readMany(ctx context.Context, f docstore.Filter) ([]Post, error) {
	posts, err := s.posts.ReadMany(ctx, f, docstore.SortBy(docstore.FieldDateUpdated, true))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	return posts, nil
}

// Update edits content and/or options. Authorship is checked by the caller with IsAuthor.
func (s *Service) Update(ctx context.Context, postID id.PostID, update map[string]any) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "update", err) }()

	set := make(docstore.Fields, len(update))
	for field, value := range update {
		switch field {
		case "content":
			str, ok := value.(string)
			if !ok || str == "" {
				return ErrEmptyContent
			}
			set[field] = str
		case "options":
			opts, err := optionsValue(value)
			if err != nil {
				return err
			}
			set[field] = opts
		default:
			return dErrors.Wrap(ErrFieldNotAllowed, dErrors.CodeNotAllowed,
				fmt.Sprintf("Cannot update '%s' field!", field))
		}
	}
	if len(set) == 0 {
		return nil
	}
	if err := s.posts.UpdateOne(ctx, docstore.Eq(docstore.FieldID, postID), set); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrPostNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update post")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, postID id.PostID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	if err := s.posts.DeleteOne(ctx, docstore.Eq(docstore.FieldID, postID)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrPostNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete post")
	}
	return nil
}

// IsAuthor returns ErrNotAuthor unless user wrote the post.
func (s *Service) IsAuthor(ctx context.Context, user id.UserID, postID id.PostID) error {
	p, err := s.posts.ReadOne(ctx, docstore.Eq(docstore.FieldID, postID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrPostNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load post")
	}
	if p.Author != user {
		return dErrors.Wrap(ErrNotAuthor, dErrors.CodeUnauthorized,
			fmt.Sprintf("%s is not the author of post %s!", user, postID))
	}
	return nil
}

func optionsValue(v any) (*Options, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case Options:
		return &o, nil
	case *Options:
		return o, nil
	case map[string]any:
		opts := &Options{}
		for k, val := range o {
			if k != "backgroundColor" {
				return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown post option %q", k)
			}
			color, ok := val.(string)
			if !ok {
				return nil, dErrors.New(dErrors.CodeBadRequest, "backgroundColor must be a string")
			}
			opts.BackgroundColor = color
		}
		return opts, nil
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "options must be an object")
}
