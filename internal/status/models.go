package status

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Status is a user's presence and what they are working on.
type Status struct {
	ID id.StatusID `json:"_id"`
	docstore.BaseDoc
	Owner         id.UserID   `json:"owner"`
	Status        id.Presence `json:"status"`
	CurAssignment string      `json:"curAssignment"`
}
