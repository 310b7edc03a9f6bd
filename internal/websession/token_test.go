package websession

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "studyhub/pkg/domain"
)

func TestTokens(t *testing.T) {
	tokens := NewTokens("key", "studyhub")
	now := time.Now()
	sid := id.SessionID(uuid.New())

	raw, err := tokens.Issue(sid, now, time.Minute)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		got, err := tokens.Parse(raw, now)
		require.NoError(t, err)
		assert.Equal(t, sid, got)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := tokens.Parse(raw, now.Add(2*time.Minute))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokens("key", "someone-else").Parse(raw, now)
		assert.Error(t, err)
	})
}
