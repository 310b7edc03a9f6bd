// Package domain holds the identifier and enum primitives shared by every concept.
//
// Cross-entity references are always one of these typed IDs, never an embedded
// document. The compiler keeps a GroupID from being passed where a UserID is expected.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "studyhub/pkg/domain-errors"
)

type (
	UserID          uuid.UUID
	SessionID       uuid.UUID
	PostID          uuid.UUID
	ProfileID       uuid.UUID
	StatusID        uuid.UUID
	FriendRequestID uuid.UUID
	FriendshipID    uuid.UUID
	GroupID         uuid.UUID
	MessageID       uuid.UUID
	TaskID          uuid.UUID
)

// maxIDLength bounds the input accepted at trust boundaries. The longest form
// uuid.Parse understands is the urn:uuid: prefix plus 36 characters.
const maxIDLength = 45

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s ID is required", kind)
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s ID", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s ID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s ID cannot be nil", kind)
	}
	return u, nil
}

func unmarshalUUID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	return uuid.ParseBytes(b)
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session")
	return SessionID(u), err
}

func ParsePostID(s string) (PostID, error) {
	u, err := parseUUID(s, "post")
	return PostID(u), err
}

func ParseGroupID(s string) (GroupID, error) {
	u, err := parseUUID(s, "group")
	return GroupID(u), err
}

func ParseMessageID(s string) (MessageID, error) {
	u, err := parseUUID(s, "message")
	return MessageID(u), err
}

func ParseTaskID(s string) (TaskID, error) {
	u, err := parseUUID(s, "task")
	return TaskID(u), err
}

func ParseFriendRequestID(s string) (FriendRequestID, error) {
	u, err := parseUUID(s, "friend request")
	return FriendRequestID(u), err
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *UserID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = UserID(u)
	return err
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *SessionID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = SessionID(u)
	return err
}

func (id PostID) String() string { return uuid.UUID(id).String() }
func (id PostID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PostID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *PostID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PostID(u)
	return err
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ProfileID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = ProfileID(u)
	return err
}

func (id StatusID) String() string { return uuid.UUID(id).String() }
func (id StatusID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id StatusID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *StatusID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = StatusID(u)
	return err
}

func (id FriendRequestID) String() string { return uuid.UUID(id).String() }
func (id FriendRequestID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id FriendRequestID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *FriendRequestID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = FriendRequestID(u)
	return err
}

func (id FriendshipID) String() string { return uuid.UUID(id).String() }
func (id FriendshipID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id FriendshipID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *FriendshipID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = FriendshipID(u)
	return err
}

func (id GroupID) String() string { return uuid.UUID(id).String() }
func (id GroupID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id GroupID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *GroupID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = GroupID(u)
	return err
}

func (id MessageID) String() string { return uuid.UUID(id).String() }
func (id MessageID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id MessageID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *MessageID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = MessageID(u)
	return err
}

func (id TaskID) String() string { return uuid.UUID(id).String() }
func (id TaskID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TaskID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *TaskID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = TaskID(u)
	return err
}
