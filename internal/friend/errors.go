package friend

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrSelfRequest        = dErrors.New(dErrors.CodeNotAllowed, "Cannot send a friend request to yourself!")
	ErrAlreadyFriends     = dErrors.New(dErrors.CodeNotAllowed, "users are already friends")
	ErrDuplicateRequest   = dErrors.New(dErrors.CodeNotAllowed, "friend request already exists")
	ErrRequestNotFound    = dErrors.New(dErrors.CodeNotFound, "friend request not found")
	ErrFriendshipNotFound = dErrors.New(dErrors.CodeNotFound, "friendship not found")
)
