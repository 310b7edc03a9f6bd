package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "studyhub/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseGroupID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePostID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
	})
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"whitespace only", "   "},
		{"sql injection", "'; DROP TABLE documents;--"},
		{"trailing null byte", uuid.NewString() + "\x00"},
		{"oversized", strings.Repeat("a", 1024)},
		{"invalid utf8", string([]byte{0xff, 0xfe, 0xfd})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessageID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestIDs_JSONRoundTrip(t *testing.T) {
	type doc struct {
		Owner  UserID   `json:"owner"`
		Group  GroupID  `json:"group"`
		Member []UserID `json:"members"`
	}
	in := doc{
		Owner:  UserID(uuid.New()),
		Group:  GroupID(uuid.New()),
		Member: []UserID{UserID(uuid.New())},
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Owner.String())

	var out doc
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestIDs_EmptyTextDecodesToNil(t *testing.T) {
	var id TaskID
	require.NoError(t, id.UnmarshalText(nil))
	assert.True(t, id.IsNil())
}

func TestParsePresence(t *testing.T) {
	for _, s := range []string{"active", "busy", "away"} {
		p, err := ParsePresence(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.String())
	}

	_, err := ParsePresence("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParsePresence("ACTIVE")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestTaskState_IsValid(t *testing.T) {
	assert.True(t, TaskIncomplete.IsValid())
	assert.True(t, TaskCompleted.IsValid())
	assert.False(t, TaskState("done").IsValid())
}
