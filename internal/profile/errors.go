package profile

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrProfileNotFound = dErrors.New(dErrors.CodeNotFound, "Profile not found!")
	ErrProfileExists   = dErrors.New(dErrors.CodeNotAllowed, "Profile already exists!")
	ErrFieldNotAllowed = dErrors.New(dErrors.CodeNotAllowed, "field cannot be updated")
	ErrInvalidYear     = dErrors.New(dErrors.CodeBadRequest, "year must be a whole number")
)
