package post

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Options are display hints for a post.
type Options struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

type Post struct {
	ID id.PostID `json:"_id"`
	docstore.BaseDoc
	Author  id.UserID `json:"author"`
	Content string    `json:"content"`
	Options *Options  `json:"options,omitempty"`
}
