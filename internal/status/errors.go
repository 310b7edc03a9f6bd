package status

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrStatusNotFound  = dErrors.New(dErrors.CodeNotFound, "Status not found!")
	ErrStatusExists    = dErrors.New(dErrors.CodeNotAllowed, "Status already exists!")
	ErrFieldNotAllowed = dErrors.New(dErrors.CodeNotAllowed, "field cannot be updated")
)
