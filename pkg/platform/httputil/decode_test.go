package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "studyhub/pkg/domain-errors"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Year     int    `json:"year" validate:"min=0,max=8"`
}

func (r *signupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "admin" {
		return dErrors.New(dErrors.CodeNotAllowed, "reserved username")
	}
	return nil
}

func decodeBody(body string) (*signupRequest, bool, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req, ok := DecodeAndPrepare[signupRequest](w, r, logger, context.Background(), "req-1")
	return req, ok, w
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("valid body runs Validate", func(t *testing.T) {
		req, ok, _ := decodeBody(`{"username":"  alice ","year":2}`)
		require.True(t, ok)
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, 2, req.Year)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, ok, w := decodeBody(`{"username":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("tag failures use json names", func(t *testing.T) {
		_, ok, w := decodeBody(`{"year":9}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "validation_error", body["error"])
		assert.Equal(t, "username is required; year must be at most 8", body["msg"])
	})

	t.Run("Validate error keeps its code", func(t *testing.T) {
		_, ok, w := decodeBody(`{"username":"admin"}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
