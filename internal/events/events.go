// Package events publishes activity events after concept mutations succeed.
//
// Publishing is best effort: a failed publish is logged and counted, never
// returned to the caller whose mutation already happened.
package events

import (
	"context"
	"log/slog"
	"time"

	"studyhub/pkg/requestcontext"
)

type Type string

const (
	UserCreated           Type = "user_created"
	UserDeleted           Type = "user_deleted"
	FriendRequestSent     Type = "friend_request_sent"
	FriendRequestAccepted Type = "friend_request_accepted"
	FriendRequestRejected Type = "friend_request_rejected"
	FriendRemoved         Type = "friend_removed"
	GroupCreated          Type = "group_created"
	GroupJoined           Type = "group_joined"
	GroupLeft             Type = "group_left"
	GroupMemberRemoved    Type = "group_member_removed"
	GroupDeleted          Type = "group_deleted"
	MessageSent           Type = "message_sent"
)

// Event describes one completed mutation. Actor is the acting user's ID and
// Subject names what was acted on (another user's ID or a group name).
type Event struct {
	Type      Type      `json:"type"`
	Actor     string    `json:"actor"`
	Subject   string    `json:"subject,omitempty"`
	At        time.Time `json:"at"`
	RequestID string    `json:"request_id,omitempty"`
}

// Publisher delivers events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit stamps event with the request time and ID and hands it to p. A nil
// publisher drops the event. Failures are logged.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, event Event) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := p.Publish(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to publish activity event",
			"type", string(event.Type),
			"actor", event.Actor,
			"error", err,
		)
	}
}
