package group

import (
	"slices"

	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
)

// Group is a named set of members. Owner is always one of Members.
type Group struct {
	ID id.GroupID `json:"_id"`
	docstore.BaseDoc
	Name     string      `json:"name"`
	Owner    id.UserID   `json:"owner"`
	Members  []id.UserID `json:"members"`
	Messages []Message   `json:"messages"`
}

// Message is one entry of a group's chat log, kept in send order.
type Message struct {
	From    id.UserID          `json:"from"`
	Content string             `json:"content"`
	Sent    docstore.Timestamp `json:"sent"`
}

func (g *Group) IsMember(user id.UserID) bool {
	return slices.Contains(g.Members, user)
}

func (g *Group) removeMember(user id.UserID) {
	g.Members = slices.DeleteFunc(g.Members, func(m id.UserID) bool { return m == user })
}
