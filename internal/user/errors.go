package user

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrUsernameNotUnique  = dErrors.New(dErrors.CodeNotAllowed, "username already exists")
	ErrMissingCredentials = dErrors.New(dErrors.CodeBadRequest, "Username and password must be non-empty!")
	ErrAuthentication     = dErrors.New(dErrors.CodeUnauthorized, "Username or password is incorrect.")
	ErrUserNotFound       = dErrors.New(dErrors.CodeNotFound, "User not found!")
	ErrFieldNotAllowed    = dErrors.New(dErrors.CodeNotAllowed, "field cannot be updated")
)
