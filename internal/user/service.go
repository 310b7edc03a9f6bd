// Package user owns accounts: unique usernames and password credentials.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	"studyhub/internal/platform/metrics"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/sentinel"
)

const concept = "user"

// Service is the user concept.
type Service struct {
	users     *docstore.Collection[User]
	hasher    Hasher
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

// WithHasher replaces bcrypt, e.g. with a cheaper cost in tests.
func WithHasher(h Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// New binds the users collection, with a unique index on username.
func New(ctx context.Context, engine docstore.Engine, opts ...Option) (*Service, error) {
	users, err := docstore.NewCollection[User](ctx, engine, "users", docstore.Unique("username"))
	if err != nil {
		return nil, fmt.Errorf("users collection: %w", err)
	}
	s := &Service{users: users, hasher: BcryptHasher{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create registers a new account. The unique username index makes the
// uniqueness check and the insert one atomic step.
func (s *Service) Create(ctx context.Context, username, password string) (_ *View, err error) {
	defer func() { s.metrics.RecordOperation(concept, "create", err) }()

	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	u := &User{Username: username, Password: hash}
	if _, err := s.users.CreateOne(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, usernameTaken(username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUsersCreated()
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.UserCreated, Actor: u.ID.String(), Subject: username})
	view := u.View()
	return &view, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *View, err error) {
	defer func() { s.metrics.RecordOperation(concept, "authenticate", err) }()

	u, err := s.users.ReadOne(ctx, docstore.Eq("username", username))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrAuthentication
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	ok, err := s.hasher.Verify(password, u.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	if !ok {
		return nil, ErrAuthentication
	}
	view := u.View()
	return &view, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID id.UserID) (*View, error) {
	return s.getOne(ctx, docstore.Eq(docstore.FieldID, userID))
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*View, error) {
	return s.getOne(ctx, docstore.Eq("username", username))
}

func (s *Service) getOne(ctx context.Context, f docstore.Filter) (*View, error) {
	u, err := s.users.ReadOne(ctx, f)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	view := u.View()
	return &view, nil
}

// GetUsers lists every account in creation order.
func (s *Service) GetUsers(ctx context.Context) ([]View, error) {
	users, err := s.users.ReadMany(ctx, docstore.All(), docstore.SortBy(docstore.FieldDateCreated, false))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	out := make([]View, len(users))
	for i := range users {
		out[i] = users[i].View()
	}
	return out, nil
}

// IdsToUsernames maps ids to usernames position by position. IDs of deleted
// accounts map to DeletedUsername.
func (s *Service) IdsToUsernames(ctx context.Context, ids []id.UserID) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	users, err := s.users.ReadMany(ctx, docstore.In(docstore.FieldID, ids...))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load users")
	}
	byID := make(map[id.UserID]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}
	out := make([]string, len(ids))
	for i, uid := range ids {
		name, ok := byID[uid]
		if !ok {
			name = DeletedUsername
		}
		out[i] = name
	}
	return out, nil
}

// UsernamesToIDs resolves usernames in order and fails on the first unknown one.
func (s *Service) UsernamesToIDs(ctx context.Context, usernames []string) ([]id.UserID, error) {
	if len(usernames) == 0 {
		return []id.UserID{}, nil
	}
	users, err := s.users.ReadMany(ctx, docstore.In("username", usernames...))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load users")
	}
	byName := make(map[string]id.UserID, len(users))
	for _, u := range users {
		byName[u.Username] = u.ID
	}
	out := make([]id.UserID, len(usernames))
	for i, name := range usernames {
		uid, ok := byName[name]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "User %s not found!", name)
		}
		out[i] = uid
	}
	return out, nil
}

// Update changes the username and/or password. Any other field is refused.
func (s *Service) Update(ctx context.Context, userID id.UserID, update map[string]any) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "update", err) }()

	set := make(docstore.Fields, len(update))
	for field, value := range update {
		str, ok := value.(string)
		switch field {
		case "username":
			if !ok || str == "" {
				return dErrors.New(dErrors.CodeBadRequest, "username must be a non-empty string")
			}
			set["username"] = str
		case "password":
			if !ok || str == "" {
				return dErrors.New(dErrors.CodeBadRequest, "password must be a non-empty string")
			}
			hash, err := s.hasher.Hash(str)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
					return err
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
			}
			set["password"] = hash
		default:
			return fieldNotAllowed(field)
		}
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.users.UpdateOne(ctx, docstore.Eq(docstore.FieldID, userID), set); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			name, _ := set["username"].(string)
			return usernameTaken(name)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return nil
}

// Delete removes the account record only. Content the user created elsewhere stays.
func (s *Service) Delete(ctx context.Context, userID id.UserID) (err error) {
	defer func() { s.metrics.RecordOperation(concept, "delete", err) }()

	if err := s.users.DeleteOne(ctx, docstore.Eq(docstore.FieldID, userID)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrUserNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	events.Emit(ctx, s.publisher, s.logger, events.Event{Type: events.UserDeleted, Actor: userID.String()})
	return nil
}

// usernameTaken keeps ErrUsernameNotUnique in the chain while naming the username.
func usernameTaken(username string) error {
	return dErrors.Wrap(ErrUsernameNotUnique, dErrors.CodeNotAllowed,
		fmt.Sprintf("User with username %s already exists!", username))
}

func fieldNotAllowed(field string) error {
	return dErrors.Wrap(ErrFieldNotAllowed, dErrors.CodeNotAllowed,
		fmt.Sprintf("Cannot update '%s' field!", field))
}
