package task

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Task is a to-do assigned to one user, optionally on behalf of a group.
type Task struct {
	ID id.TaskID `json:"_id"`
	docstore.BaseDoc
	Assigned id.UserID    `json:"assigned"`
	Todo     string       `json:"todo"`
	Status   id.TaskState `json:"status"`
	Group    *id.GroupID  `json:"group,omitempty"`
}
