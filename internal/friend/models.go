package friend

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Request is a pending friend request from From to To. Pair is the unordered
// key of the two users, unique across the collection.
type Request struct {
	ID id.FriendRequestID `json:"_id"`
	docstore.BaseDoc
	From id.UserID `json:"from"`
	To   id.UserID `json:"to"`
	Pair string    `json:"pair"`
}

// Friendship is symmetric: the order of User1 and User2 carries no meaning.
type Friendship struct {
	ID id.FriendshipID `json:"_id"`
	docstore.BaseDoc
	User1 id.UserID `json:"user1"`
	User2 id.UserID `json:"user2"`
	Pair  string    `json:"pair"`
}

// Other returns the side of the friendship that is not u.
func (f Friendship) Other(u id.UserID) id.UserID {
	if f.User1 == u {
		return f.User2
	}
	return f.User1
}

// pairKey is the same for (a, b) and (b, a).
func pairKey(a, b id.UserID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}
