// Package httptransport mounts the JSON API on a chi router.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/platform/middleware"
	dErrors "studyhub/pkg/domain-errors"
	"studyhub/pkg/platform/httputil"
	"studyhub/pkg/requestcontext"
)

// Handler wires the API routes to the application service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	loginLimiter *middleware.RateLimiter
	cookieTTL    time.Duration
	secureCookie bool
}

type Option func(*Handler)

// WithLoginLimiter throttles POST /login.
func WithLoginLimiter(l *middleware.RateLimiter) Option {
	return func(h *Handler) {
		h.loginLimiter = l
	}
}

// WithSessionCookie sets the lifetime and Secure flag of the session cookie.
func WithSessionCookie(ttl time.Duration, secure bool) Option {
	return func(h *Handler) {
		h.cookieTTL = ttl
		h.secureCookie = secure
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger, cookieTTL: 24 * time.Hour}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every route on r. Routes that act as the caller sit behind
// RequireSession; the rest are public.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.handleGetUsers)
	r.Get("/users/{username}", h.handleGetUser)
	r.Post("/users", h.handleCreateUser)
	r.Post("/logout", h.handleLogout)
	r.Get("/posts", h.handleGetPosts)
	r.Get("/profiles", h.handleGetProfiles)
	r.Get("/profiles/{username}", h.handleGetProfile)
	r.Get("/status/{username}", h.handleGetStatus)

	login := http.Handler(http.HandlerFunc(h.handleLogin))
	if h.loginLimiter != nil {
		login = h.loginLimiter.Limit(login)
	}
	r.Method(http.MethodPost, "/login", login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.logger))

		r.Get("/session", h.handleGetSession)
		r.Patch("/users", h.handleUpdateUser)
		r.Delete("/users", h.handleDeleteUser)

		r.Post("/posts", h.handleCreatePost)
		r.Patch("/posts/{id}", h.handleUpdatePost)
		r.Delete("/posts/{id}", h.handleDeletePost)

		r.Get("/friends", h.handleGetFriends)
		r.Delete("/friends/{friend}", h.handleRemoveFriend)
		r.Get("/friend/requests", h.handleGetFriendRequests)
		r.Post("/friend/requests/{to}", h.handleSendFriendRequest)
		r.Delete("/friend/requests/{to}", h.handleRemoveFriendRequest)
		r.Put("/friend/accept/{from}", h.handleAcceptFriendRequest)
		r.Put("/friend/reject/{from}", h.handleRejectFriendRequest)

		r.Patch("/profile", h.handleUpdateProfile)
		r.Patch("/status", h.handleUpdateStatus)
		r.Get("/statuses", h.handleGetFriendsSameAssignment)

		r.Get("/messages", h.handleGetMessages)
		r.Get("/messages/{username}", h.handleGetMessagesBetween)
		r.Post("/messages/{to}", h.handleSendMessage)

		r.Get("/groups", h.handleGetGroups)
		r.Post("/groups", h.handleCreateGroup)
		r.Get("/groups/{name}", h.handleGetGroup)
		r.Delete("/groups/{name}", h.handleDeleteGroup)
		r.Post("/groups/{name}/join", h.handleJoinGroup)
		r.Post("/groups/{name}/leave", h.handleLeaveGroup)
		r.Delete("/groups/{name}/members/{member}", h.handleRemoveGroupMember)
		r.Get("/groups/{name}/messages", h.handleGetGroupMessages)
		r.Post("/groups/{name}/messages", h.handleSendGroupMessage)

		r.Get("/tasks", h.handleGetTasks)
		r.Post("/tasks", h.handleAddTask)
		r.Get("/tasks/group/{group}", h.handleGetGroupTasks)
		r.Put("/tasks/{id}/complete", h.handleCompleteTask)
		r.Delete("/tasks/{id}", h.handleDeleteTask)
	})
}

// fail logs err at a level matching its code and writes the error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx).String(),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
