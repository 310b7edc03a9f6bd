package message

import (
	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Message is a direct message between two different users.
type Message struct {
	ID id.MessageID `json:"_id"`
	docstore.BaseDoc
	From    id.UserID `json:"from"`
	To      id.UserID `json:"to"`
	Content string    `json:"content"`
}
