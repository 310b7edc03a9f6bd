package responses

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"studyhub/internal/docstore"
	"studyhub/internal/friend"
	"studyhub/internal/group"
	"studyhub/internal/message"
	"studyhub/internal/post"
	"studyhub/internal/profile"
	"studyhub/internal/user"
	id "studyhub/pkg/domain"
)

type fixture struct {
	shaper   *Shaper
	users    *user.Service
	ann, bob id.UserID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	users, err := user.New(ctx, docstore.NewMemoryEngine(), user.WithHasher(user.BcryptHasher{Cost: bcrypt.MinCost}))
	require.NoError(t, err)
	ann, err := users.Create(ctx, "ann", "pw")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "pw")
	require.NoError(t, err)
	return fixture{shaper: NewShaper(users), users: users, ann: ann.ID, bob: bob.ID}
}

func TestPosts(t *testing.T) {
	f := newFixture(t)
	ghost := id.UserID(uuid.New())

	views, err := f.shaper.Posts(context.Background(), []post.Post{
		{ID: id.PostID(uuid.New()), Author: f.ann, Content: "a"},
		{ID: id.PostID(uuid.New()), Author: ghost, Content: "b"},
		{ID: id.PostID(uuid.New()), Author: f.ann, Content: "c"},
	})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "ann", views[0].Author)
	assert.Equal(t, user.DeletedUsername, views[1].Author)
	assert.Equal(t, "ann", views[2].Author)
}

func TestFriendRequestsAndMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reqs, err := f.shaper.FriendRequests(ctx, []friend.Request{{From: f.ann, To: f.bob}})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "ann", reqs[0].From)
	assert.Equal(t, "bob", reqs[0].To)

	msgs, err := f.shaper.Messages(ctx, []message.Message{{From: f.bob, To: f.ann, Content: "hey"}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "bob", msgs[0].From)
	assert.Equal(t, "ann", msgs[0].To)

	friends, err := f.shaper.Friends(ctx, []id.UserID{f.bob})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, friends)
}

func TestGroupsAndProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groups, err := f.shaper.Groups(ctx, []group.Group{
		{Name: "study", Owner: f.ann, Members: []id.UserID{f.ann, f.bob}},
		{Name: "solo", Owner: f.bob, Members: []id.UserID{f.bob}},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "ann", groups[0].Owner)
	assert.Equal(t, []string{"ann", "bob"}, groups[0].Members)
	assert.Equal(t, []string{"bob"}, groups[1].Members)

	gm, err := f.shaper.GroupMessages(ctx, []group.Message{{From: f.bob, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "bob", gm[0].From)

	p, err := f.shaper.Profile(ctx, profile.Profile{Owner: f.ann, Name: "Ann", Courses: []string{"6.1040"}})
	require.NoError(t, err)
	assert.Equal(t, "ann", p.Owner)
	assert.Equal(t, []string{"6.1040"}, p.Courses)
}

type failingLookup struct{ err error }

func (l failingLookup) IdsToUsernames(context.Context, []id.UserID) ([]string, error) {
	return nil, l.err
}

func TestLookupFailurePropagates(t *testing.T) {
	boom := errors.New("store down")
	shaper := NewShaper(failingLookup{err: boom})

	_, err := shaper.Messages(context.Background(), []message.Message{{From: id.UserID(uuid.New())}})
	assert.ErrorIs(t, err, boom)

	_, err = shaper.Groups(context.Background(), []group.Group{{Name: "g"}})
	assert.ErrorIs(t, err, boom)
}
