package domain

import dErrors "studyhub/pkg/domain-errors"

// Presence is what a user shows their friends.
// Invariant: the value must be one of the supported presence states.
//
// Usage: construct via ParsePresence at trust boundaries; direct casting bypasses validation.
type Presence string

const (
	PresenceActive Presence = "active"
	PresenceBusy   Presence = "busy"
	PresenceAway   Presence = "away"
)

var validPresences = map[Presence]bool{
	PresenceActive: true,
	PresenceBusy:   true,
	PresenceAway:   true,
}

// ParsePresence constructs a Presence from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParsePresence(s string) (Presence, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	p := Presence(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid status %q", s)
	}
	return p, nil
}

func (p Presence) IsValid() bool {
	return validPresences[p]
}

func (p Presence) String() string {
	return string(p)
}

// TaskState is the completion state of a task.
type TaskState string

const (
	TaskIncomplete TaskState = "incomplete"
	TaskCompleted  TaskState = "completed"
)

func (s TaskState) IsValid() bool {
	return s == TaskIncomplete || s == TaskCompleted
}

func (s TaskState) String() string {
	return string(s)
}
