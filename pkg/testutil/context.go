package testutil

import (
	"net/http"

	id "studyhub/pkg/domain"
	"studyhub/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, as the session middleware would
// for a logged-in request. Invalid IDs are ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithSession adds the user ID and raw session token to the request context.
func WithSession(req *http.Request, userID id.UserID, token string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithSessionToken(ctx, token)
	return req.WithContext(ctx)
}
