package task

import dErrors "studyhub/pkg/domain-errors"

var (
	ErrTaskNotFound = dErrors.New(dErrors.CodeNotFound, "Task not found!")
	ErrEmptyTodo    = dErrors.New(dErrors.CodeBadRequest, "Task must be non-empty!")
)
