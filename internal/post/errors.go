package post

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrPostNotFound    = dErrors.New(dErrors.CodeNotFound, "Post not found!")
	ErrNotAuthor       = dErrors.New(dErrors.CodeUnauthorized, "user is not the author of the post")
	ErrEmptyContent    = dErrors.New(dErrors.CodeBadRequest, "Post content must be non-empty!")
	ErrFieldNotAllowed = dErrors.New(dErrors.CodeNotAllowed, "field cannot be updated")
)
