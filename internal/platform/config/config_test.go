package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"STUDYHUB_ADDR", "STORAGE_BACKEND", "DATABASE_URL", "REDIS_URL", "SESSION_TTL", "KAFKA_BROKERS", "SESSION_SIGNING_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.Events.KafkaBrokers)
	assert.True(t, cfg.UsesDevSigningKey())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/studyhub?sslmode=disable")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("REDIS_POOL_SIZE", "32")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "forever")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("postgres without a database url", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", StoragePostgres)
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "mongo")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "mongo")
	})
}
