package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studyhub/internal/platform/config"
)

func TestNew(t *testing.T) {
	h := http.NotFoundHandler()

	t.Run("uses configured timeouts", func(t *testing.T) {
		srv := New(config.Server{Addr: ":9999", ReadTimeout: time.Second, WriteTimeout: 2 * time.Second, IdleTimeout: 3 * time.Second}, h)
		assert.Equal(t, ":9999", srv.Addr)
		assert.Equal(t, time.Second, srv.ReadTimeout)
		assert.Equal(t, 2*time.Second, srv.WriteTimeout)
		assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	})

	t.Run("falls back when unset", func(t *testing.T) {
		srv := New(config.Server{Addr: ":8080"}, h)
		assert.Equal(t, 15*time.Second, srv.ReadTimeout)
		assert.Equal(t, 30*time.Second, srv.WriteTimeout)
		assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
	})
}
