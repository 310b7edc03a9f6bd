package profile

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Profile is the one-per-user academic profile.
type Profile struct {
	ID id.ProfileID `json:"_id"`
	docstore.BaseDoc
	Owner   id.UserID `json:"owner"`
	Name    string    `json:"name"`
	Major   string    `json:"major"`
	Year    int       `json:"year"`
	Courses []string  `json:"courses"`
}
