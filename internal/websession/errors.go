package websession

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrNotLoggedIn     = dErrors.New(dErrors.CodeUnauthorized, "Must be logged in!")
	ErrAlreadyLoggedIn = dErrors.New(dErrors.CodeNotAllowed, "Must be logged out!")
)
