package app

import (
	"context"
	"errors"

	"studyhub/internal/profile"
	"studyhub/internal/responses"
	"studyhub/internal/status"
	"studyhub/internal/user"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
)

// NewUser is everything a registration creates: the account, its profile and
// its status.
type NewUser struct {
	Username string
	Password string
	Name     string
	Major    string
	Year     int
	Courses  []string
}

type Registration struct {
	User    user.View             `json:"user"`
	Profile responses.ProfileView `json:"profile"`
	Status  status.Status         `json:"status"`
}

// SessionUser returns the account behind the current session.
func (a *App) SessionUser(ctx context.Context, userID id.UserID) (*user.View, error) {
	return a.Users.GetUserByID(ctx, userID)
}

func (a *App) GetUsers(ctx context.Context) ([]user.View, error) {
	return a.Users.GetUsers(ctx)
}

func (a *App) GetUser(ctx context.Context, username string) (*user.View, error) {
	return a.Users.GetUserByUsername(ctx, username)
}

// CreateUser registers an account with its profile and status. The caller must
// not hold a live session. A failed profile or status insert removes what was
// already written for the account.
func (a *App) CreateUser(ctx context.Context, token string, in NewUser) (*Registration, error) {
	if err := a.Sessions.IsLoggedOut(ctx, token); err != nil {
		return nil, err
	}
	u, err := a.Users.Create(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	p, err := a.Profiles.Create(ctx, u.ID, in.Name, in.Major, in.Year, in.Courses)
	if err != nil {
		a.rollbackUser(ctx, u.ID, false)
		return nil, err
	}
	st, err := a.Statuses.Create(ctx, u.ID)
	if err != nil {
		a.rollbackUser(ctx, u.ID, true)
		return nil, err
	}
	pv, err := a.Shaper.Profile(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &Registration{User: *u, Profile: pv, Status: *st}, nil
}

func (a *App) rollbackUser(ctx context.Context, userID id.UserID, withProfile bool) {
	if withProfile {
		if err := a.Profiles.Delete(ctx, userID); err != nil {
			a.logger.ErrorContext(ctx, "failed to roll back profile", "user_id", userID.String(), "error", err)
		}
	}
	if err := a.Users.Delete(ctx, userID); err != nil {
		a.logger.ErrorContext(ctx, "failed to roll back user", "user_id", userID.String(), "error", err)
	}
}

func (a *App) UpdateUser(ctx context.Context, userID id.UserID, update map[string]any) error {
	return a.Users.Update(ctx, userID, update)
}

// DeleteUser ends every session of the account and deletes the account, its
// profile and its status. Posts, friendships, memberships and tasks stay.
func (a *App) DeleteUser(ctx context.Context, userID id.UserID) error {
	if err := a.Sessions.EndAll(ctx, userID); err != nil {
		return err
	}
	if err := a.Users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := a.Profiles.Delete(ctx, userID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		return err
	}
	if err := a.Statuses.Delete(ctx, userID); err != nil && !errors.Is(err, status.ErrStatusNotFound) {
		return err
	}
	return nil
}

// Login authenticates and starts a session, replacing the one behind token.
func (a *App) Login(ctx context.Context, token, username, password, userAgent string) (string, error) {
	u, err := a.Users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := a.Sessions.End(ctx, token); err != nil {
		return "", err
	}
	return a.Sessions.Start(ctx, u.ID, userAgent)
}

func (a *App) Logout(ctx context.Context, token string) error {
	return a.Sessions.End(ctx, token)
}

func (a *App) GetProfiles(ctx context.Context) ([]responses.ProfileView, error) {
	profiles, err := a.Profiles.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return a.Shaper.Profiles(ctx, profiles)
}

func (a *App) GetProfile(ctx context.Context, username string) (*responses.ProfileView, error) {
	owner, err := a.userID(ctx, username)
	if err != nil {
		return nil, err
	}
	p, err := a.Profiles.GetProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	view, err := a.Shaper.Profile(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (a *App) UpdateProfile(ctx context.Context, userID id.UserID, update map[string]any) error {
	return a.Profiles.Update(ctx, userID, update)
}

func (a *App) GetStatus(ctx context.Context, username string) (*status.Status, error) {
	owner, err := a.userID(ctx, username)
	if err != nil {
		return nil, err
	}
	return a.Statuses.GetStatus(ctx, owner)
}

func (a *App) UpdateStatus(ctx context.Context, userID id.UserID, update map[string]any) error {
	return a.Statuses.Update(ctx, userID, update)
}

// GetFriendsSameAssignment lists the usernames of friends working on the same
// assignment as userID. Friends without a status never match.
func (a *App) GetFriendsSameAssignment(ctx context.Context, userID id.UserID) ([]string, error) {
	friends, err := a.Friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	same := make([]bool, len(friends))
	g, gctx := errgroupWithLimit(ctx)
	for i, f := range friends {
		g.Go(func() error {
			ok, err := a.Statuses.IsSameAssignment(gctx, userID, f)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return nil
				}
				return err
			}
			same[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	matched := make([]id.UserID, 0, len(friends))
	for i, f := range friends {
		if same[i] {
			matched = append(matched, f)
		}
	}
	return a.Shaper.Friends(ctx, matched)
}
