package app

import (
	"context"

	"studyhub/internal/message"
	"studyhub/internal/post"
	"studyhub/internal/responses"
	id "studyhub/pkg/domain"
)

// GetPosts lists every post, or only author's when author is set.
func (a *App) GetPosts(ctx context.Context, author string) ([]responses.PostView, error) {
	var (
		posts []post.Post
		err   error
	)
	if author != "" {
		authorID, lookupErr := a.userID(ctx, author)
		if lookupErr != nil {
			return nil, lookupErr
		}
		posts, err = a.Posts.GetByAuthor(ctx, authorID)
	} else {
		posts, err = a.Posts.GetPosts(ctx)
	}
	if err != nil {
		return nil, err
	}
	return a.Shaper.Posts(ctx, posts)
}

func (a *App) CreatePost(ctx context.Context, author id.UserID, content string, options *post.Options) (*responses.PostView, error) {
	p, err := a.Posts.Create(ctx, author, content, options)
	if err != nil {
		return nil, err
	}
	view, err := a.Shaper.Post(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (a *App) UpdatePost(ctx context.Context, userID id.UserID, postID id.PostID, update map[string]any) error {
	if err := a.Posts.IsAuthor(ctx, userID, postID); err != nil {
		return err
	}
	return a.Posts.Update(ctx, postID, update)
}

func (a *App) DeletePost(ctx context.Context, userID id.UserID, postID id.PostID) error {
	if err := a.Posts.IsAuthor(ctx, userID, postID); err != nil {
		return err
	}
	return a.Posts.Delete(ctx, postID)
}

func (a *App) GetFriends(ctx context.Context, userID id.UserID) ([]string, error) {
	friends, err := a.Friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Shaper.Friends(ctx, friends)
}

func (a *App) RemoveFriend(ctx context.Context, userID id.UserID, friendName string) error {
	friendID, err := a.userID(ctx, friendName)
	if err != nil {
		return err
	}
	return a.Friends.RemoveFriend(ctx, userID, friendID)
}

func (a *App) GetFriendRequests(ctx context.Context, userID id.UserID) ([]responses.FriendRequestView, error) {
	requests, err := a.Friends.GetRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Shaper.FriendRequests(ctx, requests)
}

func (a *App) SendFriendRequest(ctx context.Context, userID id.UserID, to string) error {
	toID, err := a.userID(ctx, to)
	if err != nil {
		return err
	}
	_, err = a.Friends.SendRequest(ctx, userID, toID)
	return err
}

func (a *App) RemoveFriendRequest(ctx context.Context, userID id.UserID, to string) error {
	toID, err := a.userID(ctx, to)
	if err != nil {
		return err
	}
	return a.Friends.RemoveRequest(ctx, userID, toID)
}

// AcceptFriendRequest accepts the request from sent to userID.
func (a *App) AcceptFriendRequest(ctx context.Context, userID id.UserID, from string) error {
	fromID, err := a.userID(ctx, from)
	if err != nil {
		return err
	}
	return a.Friends.AcceptRequest(ctx, fromID, userID)
}

func (a *App) RejectFriendRequest(ctx context.Context, userID id.UserID, from string) error {
	fromID, err := a.userID(ctx, from)
	if err != nil {
		return err
	}
	return a.Friends.RejectRequest(ctx, fromID, userID)
}

func (a *App) GetMessages(ctx context.Context, userID id.UserID) ([]responses.MessageView, error) {
	messages, err := a.Messages.GetMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Shaper.Messages(ctx, messages)
}

func (a *App) GetMessagesBetween(ctx context.Context, userID id.UserID, other string) ([]responses.MessageView, error) {
	otherID, err := a.userID(ctx, other)
	if err != nil {
		return nil, err
	}
	messages, err := a.Messages.GetMessagesBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return a.Shaper.Messages(ctx, messages)
}

func (a *App) SendMessage(ctx context.Context, userID id.UserID, to, content string) (*responses.MessageView, error) {
	toID, err := a.userID(ctx, to)
	if err != nil {
		return nil, err
	}
	m, err := a.Messages.SendMessage(ctx, userID, toID, content)
	if err != nil {
		return nil, err
	}
	views, err := a.Shaper.Messages(ctx, []message.Message{*m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
