package user

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// User is the stored account document. Password holds a bcrypt hash.
type User struct {
	ID id.UserID `json:"_id"`
	docstore.BaseDoc
	Username string `json:"username"`
	Password string `json:"password"`
}

// View is a user as the API shows it: never with the credential.
type View struct {
	ID          id.UserID          `json:"_id"`
	Username    string             `json:"username"`
	DateCreated docstore.Timestamp `json:"dateCreated"`
	DateUpdated docstore.Timestamp `json:"dateUpdated"`
}

func (u *User) View() View {
	return View{
		ID:          u.ID,
		Username:    u.Username,
		DateCreated: u.DateCreated,
		DateUpdated: u.DateUpdated,
	}
}

// DeletedUsername stands in for references to users that no longer exist.
const DeletedUsername = "DELETED_USER"
