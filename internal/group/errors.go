package group

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrNameNotUnique     = dErrors.New(dErrors.CodeNotAllowed, "group name already exists")
	ErrOwnerMustBeMember = dErrors.New(dErrors.CodeNotAllowed, "Group owner must be a member of the group!")
	ErrGroupNotFound     = dErrors.New(dErrors.CodeNotFound, "Group not found!")
	ErrAlreadyMember     = dErrors.New(dErrors.CodeNotAllowed, "user already in group")
	ErrNotAMember        = dErrors.New(dErrors.CodeNotFound, "user not found in group")
	ErrOwnerCannotLeave  = dErrors.New(dErrors.CodeNotAllowed, "Group owner cannot leave the group!")
	ErrNotGroupOwner     = dErrors.New(dErrors.CodeUnauthorized, "user is not the owner of the group")
	ErrEmptyName         = dErrors.New(dErrors.CodeBadRequest, "Group name must be non-empty!")
	ErrEmptyMessage      = dErrors.New(dErrors.CodeBadRequest, "Message content must be non-empty!")
	ErrConcurrentUpdate  = dErrors.New(dErrors.CodeConflict, "group was modified concurrently, try again")
)
