package message

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	id "studyhub/pkg/domain"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/requestcontext"
)

func newService(t *testing.T) (*Service, *events.MemoryPublisher) {
	t.Helper()
	publisher := events.NewMemoryPublisher()
	svc, err := New(context.Background(), docstore.NewMemoryEngine(), WithPublisher(publisher))
	require.NoError(t, err)
	return svc, publisher
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newService(t)
	ann, bob := id.UserID(uuid.New()), id.UserID(uuid.New())

	t.Run("to yourself", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, ann, ann, "note to self")
		require.ErrorIs(t, err, ErrSelfMessage)
		assert.Equal(t, dErrors.CodeNotAllowed, dErrors.CodeOf(err))
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, ann, bob, "")
		require.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("sent", func(t *testing.T) {
		m, err := svc.SendMessage(ctx, ann, bob, "hi")
		require.NoError(t, err)
		assert.False(t, m.ID.IsNil())
		assert.Equal(t, []events.Type{events.MessageSent}, publisher.Types())
	})
}

func TestConversations(t *testing.T) {
	base := context.Background()
	svc, _ := newService(t)
	ann, bob, cat := id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	send := func(from, to id.UserID, content string) {
		clock = clock.Add(time.Minute)
		_, err := svc.SendMessage(requestcontext.WithTime(base, clock), from, to, content)
		require.NoError(t, err)
	}
	send(ann, bob, "1")
	send(bob, ann, "2")
	send(cat, ann, "3")
	send(bob, cat, "4")

	between, err := svc.GetMessagesBetween(base, ann, bob)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "2", between[0].Content, "newest first")
	assert.Equal(t, "1", between[1].Content)

	mine, err := svc.GetMessages(base, ann)
	require.NoError(t, err)
	contents := make([]string, len(mine))
	for i, m := range mine {
		contents[i] = m.Content
	}
	assert.Equal(t, []string{"3", "2", "1"}, contents)
}
