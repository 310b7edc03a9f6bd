package httptransport

import (
	"context"

	"studyhub/internal/app"
	"studyhub/internal/post"
	"studyhub/internal/responses"
	"studyhub/internal/status"
	"studyhub/internal/task"
	"studyhub/internal/user"
	id "studyhub/pkg/domain"
)

// Service is the application surface the routes call. *app.App implements it.
type Service interface {
	SessionUser(ctx context.Context, userID id.UserID) (*user.View, error)
	GetUsers(ctx context.Context) ([]user.View, error)
	GetUser(ctx context.Context, username string) (*user.View, error)
	CreateUser(ctx context.Context, token string, in app.NewUser) (*app.Registration, error)
	UpdateUser(ctx context.Context, userID id.UserID, update map[string]any) error
	DeleteUser(ctx context.Context, userID id.UserID) error
	Login(ctx context.Context, token, username, password, userAgent string) (string, error)
	Logout(ctx context.Context, token string) error

	GetPosts(ctx context.Context, author string) ([]responses.PostView, error)
	CreatePost(ctx context.Context, author id.UserID, content string, options *post.Options) (*responses.PostView, error)
	UpdatePost(ctx context.Context, userID id.UserID, postID id.PostID, update map[string]any) error
	DeletePost(ctx context.Context, userID id.UserID, postID id.PostID) error

	GetFriends(ctx context.Context, userID id.UserID) ([]string, error)
	RemoveFriend(ctx context.Context, userID id.UserID, friendName string) error
	GetFriendRequests(ctx context.Context, userID id.UserID) ([]responses.FriendRequestView, error)
	SendFriendRequest(ctx context.Context, userID id.UserID, to string) error
	RemoveFriendRequest(ctx context.Context, userID id.UserID, to string) error
	AcceptFriendRequest(ctx context.Context, userID id.UserID, from string) error
	RejectFriendRequest(ctx context.Context, userID id.UserID, from string) error

	GetProfiles(ctx context.Context) ([]responses.ProfileView, error)
	GetProfile(ctx context.Context, username string) (*responses.ProfileView, error)
	UpdateProfile(ctx context.Context, userID id.UserID, update map[string]any) error
	GetStatus(ctx context.Context, username string) (*status.Status, error)
	UpdateStatus(ctx context.Context, userID id.UserID, update map[string]any) error
	GetFriendsSameAssignment(ctx context.Context, userID id.UserID) ([]string, error)

	GetMessages(ctx context.Context, userID id.UserID) ([]responses.MessageView, error)
	GetMessagesBetween(ctx context.Context, userID id.UserID, other string) ([]responses.MessageView, error)
	SendMessage(ctx context.Context, userID id.UserID, to, content string) (*responses.MessageView, error)

	GetGroups(ctx context.Context, userID id.UserID) ([]responses.GroupView, error)
	GetGroup(ctx context.Context, name string) (*responses.GroupView, error)
	CreateGroup(ctx context.Context, owner id.UserID, name string, members []string) (*responses.GroupView, error)
	JoinGroup(ctx context.Context, userID id.UserID, name string) error
	LeaveGroup(ctx context.Context, userID id.UserID, name string) error
	RemoveGroupMember(ctx context.Context, actor id.UserID, name, member string) error
	DeleteGroup(ctx context.Context, actor id.UserID, name string) error
	GetGroupMessages(ctx context.Context, userID id.UserID, name string) ([]responses.GroupMessageView, error)
	SendGroupMessage(ctx context.Context, userID id.UserID, name, content string) error

	AddTask(ctx context.Context, userID id.UserID, todo, groupName string) (*task.Task, error)
	GetTasks(ctx context.Context, userID id.UserID) ([]task.Task, error)
	GetGroupTasks(ctx context.Context, userID id.UserID, groupName string) ([]task.Task, error)
	CompleteTask(ctx context.Context, userID id.UserID, taskID id.TaskID) error
	DeleteTask(ctx context.Context, userID id.UserID, taskID id.TaskID) error
}

var _ Service = (*app.App)(nil)
