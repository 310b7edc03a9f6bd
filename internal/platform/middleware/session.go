package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"studyhub/internal/websession"
	id "studyhub/pkg/domain"
	"studyhub/pkg/platform/httputil"
	"studyhub/pkg/requestcontext"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "studyhub_session"

// SessionResolver maps a raw session token to a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*websession.Session, error)
}

// LoadSession attaches the presented token and, when it names a live session,
// the logged-in user to the request context. Requests without a valid session
// pass through anonymous.
func LoadSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestcontext.WithSessionToken(r.Context(), token)

			session, err := resolver.Resolve(ctx, token)
			switch {
			case err == nil:
				ctx = requestcontext.WithUserID(ctx, session.UserID)
				ctx = requestcontext.WithSessionID(ctx, session.ID)
			case errors.Is(err, websession.ErrNotLoggedIn):
				logger.DebugContext(ctx, "stale session token",
					"request_id", requestcontext.RequestID(ctx),
				)
			default:
				logger.ErrorContext(ctx, "failed to resolve session",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests LoadSession did not attach a user to.
func RequireSession(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.UserID(ctx) == (id.UserID{}) {
				logger.WarnContext(ctx, "unauthorized access - no session",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, websession.ErrNotLoggedIn)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest reads a Bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
