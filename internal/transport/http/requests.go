package httptransport

import (
	"strings"

	"studyhub/internal/app"
	"studyhub/internal/post"
	"studyhub/internal/profile"
	dErrors "studyhub/pkg/domain-errors"
)

// CreateUserRequest is the body of POST /users. Year may be a number or a
// numeric string; courses may be a list or a comma separated string.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=64,excludesall=/?#"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"max=128"`
	Major    string `json:"major" validate:"max=128"`
	Year     any    `json:"year"`
	Courses  any    `json:"courses"`

	parsed app.NewUser
}

func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	r.parsed = app.NewUser{
		Username: r.Username,
		Password: r.Password,
		Name:     strings.TrimSpace(r.Name),
		Major:    strings.TrimSpace(r.Major),
		Courses:  []string{},
	}
	if r.Year != nil {
		year, err := profile.YearFrom(r.Year)
		if err != nil {
			return err
		}
		r.parsed.Year = year
	}
	if r.Courses != nil {
		courses, err := profile.CoursesFrom(r.Courses)
		if err != nil {
			return err
		}
		r.parsed.Courses = courses
	}
	return nil
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateRequest wraps the partial document PATCH routes accept.
type UpdateRequest struct {
	Update map[string]any `json:"update" validate:"required"`
}

func (r *UpdateRequest) Validate() error {
	if len(r.Update) == 0 {
		return dErrors.New(dErrors.CodeValidation, "update must name at least one field")
	}
	return nil
}

type CreatePostRequest struct {
	Content string        `json:"content" validate:"required,max=10000"`
	Options *post.Options `json:"options"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=64,excludesall=/?#"`
	Members []string `json:"members" validate:"omitempty,max=256,dive,required"`
}

func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

type AddTaskRequest struct {
	Todo  string `json:"todo" validate:"required,max=1000"`
	Group string `json:"group" validate:"max=64"`
}
