package message

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrSelfMessage  = dErrors.New(dErrors.CodeNotAllowed, "Message cannot be sent to yourself!")
	ErrEmptyContent = dErrors.New(dErrors.CodeBadRequest, "Message content must be non-empty!")
)
