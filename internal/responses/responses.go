// Package responses turns stored documents into API views, replacing user ids
// with usernames. References to deleted users come back as user.DeletedUsername.
package responses

import (
	"context"

	"golang.org/x/sync/errgroup"

	"studyhub/internal/docstore"
	"studyhub/internal/friend"
	"studyhub/internal/group"
	"studyhub/internal/message"
	"studyhub/internal/post"
	"studyhub/internal/profile"
	id "studyhub/pkg/domain"
)

// UserLookup resolves ids to usernames position by position.
type UserLookup interface {
	IdsToUsernames(ctx context.Context, ids []id.UserID) ([]string, error)
}

type Shaper struct {
	users UserLookup
}

func NewShaper(users UserLookup) *Shaper {
	return &Shaper{users: users}
}

type PostView struct {
	ID          id.PostID          `json:"_id"`
	Author      string             `json:"author"`
	Content     string             `json:"content"`
	Options     *post.Options      `json:"options,omitempty"`
	DateCreated docstore.Timestamp `json:"dateCreated"`
	DateUpdated docstore.Timestamp `json:"dateUpdated"`
}

type FriendRequestView struct {
	ID          id.FriendRequestID `json:"_id"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	DateCreated docstore.Timestamp `json:"dateCreated"`
}

type MessageView struct {
	ID          id.MessageID       `json:"_id"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	Content     string             `json:"content"`
	DateCreated docstore.Timestamp `json:"dateCreated"`
}

type GroupView struct {
	ID          id.GroupID         `json:"_id"`
	Name        string             `json:"name"`
	Owner       string             `json:"owner"`
	Members     []string           `json:"members"`
	DateCreated docstore.Timestamp `json:"dateCreated"`
}

type GroupMessageView struct {
	From    string             `json:"from"`
	Content string             `json:"content"`
	Sent    docstore.Timestamp `json:"sent"`
}

type ProfileView struct {
	ID      id.ProfileID `json:"_id"`
	Owner   string       `json:"owner"`
	Name    string       `json:"name"`
	Major   string       `json:"major"`
	Year    int          `json:"year"`
	Courses []string     `json:"courses"`
}

func (s *Shaper) Post(ctx context.Context, p post.Post) (PostView, error) {
	views, err := s.Posts(ctx, []post.Post{p})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (s *Shaper) Posts(ctx context.Context, posts []post.Post) ([]PostView, error) {
	authors := make([]id.UserID, len(posts))
	for i, p := range posts {
		authors[i] = p.Author
	}
	names, err := s.users.IdsToUsernames(ctx, authors)
	if err != nil {
		return nil, err
	}
	out := make([]PostView, len(posts))
	for i, p := range posts {
		out[i] = PostView{
			ID:          p.ID,
			Author:      names[i],
			Content:     p.Content,
			Options:     p.Options,
			DateCreated: p.DateCreated,
			DateUpdated: p.DateUpdated,
		}
	}
	return out, nil
}

// Friends resolves a friend id list to usernames.
func (s *Shaper) Friends(ctx context.Context, friends []id.UserID) ([]string, error) {
	return s.users.IdsToUsernames(ctx, friends)
}

func (s *Shaper) FriendRequests(ctx context.Context, requests []friend.Request) ([]FriendRequestView, error) {
	from := make([]id.UserID, len(requests))
	to := make([]id.UserID, len(requests))
	for i, r := range requests {
		from[i], to[i] = r.From, r.To
	}
	fromNames, toNames, err := s.lookupPair(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]FriendRequestView, len(requests))
	for i, r := range requests {
		out[i] = FriendRequestView{ID: r.ID, From: fromNames[i], To: toNames[i], DateCreated: r.DateCreated}
	}
	return out, nil
}

func (s *Shaper) Messages(ctx context.Context, messages []message.Message) ([]MessageView, error) {
	from := make([]id.UserID, len(messages))
	to := make([]id.UserID, len(messages))
	for i, m := range messages {
		from[i], to[i] = m.From, m.To
	}
	fromNames, toNames, err := s.lookupPair(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]MessageView, len(messages))
	for i, m := range messages {
		out[i] = MessageView{
			ID:          m.ID,
			From:        fromNames[i],
			To:          toNames[i],
			Content:     m.Content,
			DateCreated: m.DateCreated,
		}
	}
	return out, nil
}

func (s *Shaper) Group(ctx context.Context, g group.Group) (GroupView, error) {
	ids := append([]id.UserID{g.Owner}, g.Members...)
	names, err := s.users.IdsToUsernames(ctx, ids)
	if err != nil {
		return GroupView{}, err
	}
	return GroupView{
		ID:          g.ID,
		Name:        g.Name,
		Owner:       names[0],
		Members:     names[1:],
		DateCreated: g.DateCreated,
	}, nil
}

// Groups shapes each group with its own lookup, concurrently.
func (s *Shaper) Groups(ctx context.Context, groups []group.Group) ([]GroupView, error) {
	out := make([]GroupView, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i := range groups {
		g.Go(func() error {
			v, err := s.Group(gctx, groups[i])
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Shaper) GroupMessages(ctx context.Context, messages []group.Message) ([]GroupMessageView, error) {
	from := make([]id.UserID, len(messages))
	for i, m := range messages {
		from[i] = m.From
	}
	names, err := s.users.IdsToUsernames(ctx, from)
	if err != nil {
		return nil, err
	}
	out := make([]GroupMessageView, len(messages))
	for i, m := range messages {
		out[i] = GroupMessageView{From: names[i], Content: m.Content, Sent: m.Sent}
	}
	return out, nil
}

func (s *Shaper) Profile(ctx context.Context, p profile.Profile) (ProfileView, error) {
	views, err := s.Profiles(ctx, []profile.Profile{p})
	if err != nil {
		return ProfileView{}, err
	}
	return views[0], nil
}

func (s *Shaper) Profiles(ctx context.Context, profiles []profile.Profile) ([]ProfileView, error) {
	owners := make([]id.UserID, len(profiles))
	for i, p := range profiles {
		owners[i] = p.Owner
	}
	names, err := s.users.IdsToUsernames(ctx, owners)
	if err != nil {
		return nil, err
	}
	out := make([]ProfileView, len(profiles))
	for i, p := range profiles {
		out[i] = ProfileView{
			ID:      p.ID,
			Owner:   names[i],
			Name:    p.Name,
			Major:   p.Major,
			Year:    p.Year,
			Courses: p.Courses,
		}
	}
	return out, nil
}

// lookupPair resolves two parallel id lists at the same time.
func (s *Shaper) lookupPair(ctx context.Context, a, b []id.UserID) ([]string, []string, error) {
	var aNames, bNames []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, err := s.users.IdsToUsernames(gctx, a)
		aNames = names
		return err
	})
	g.Go(func() error {
		names, err := s.users.IdsToUsernames(gctx, b)
		bNames = names
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return aNames, bNames, nil
}
