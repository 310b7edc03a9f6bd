package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/app"
	"studyhub/pkg/platform/httputil"
	"studyhub/pkg/requestcontext"
)

type RegistrationResponse struct {
	Msg string `json:"msg"`
	*app.Registration
}

type LoginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.service.SessionUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "get session user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsers(r.Context())
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "get user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

// handleCreateUser registers an account, profile and status. The caller must
// be logged out.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	reg, err := h.service.CreateUser(ctx, requestcontext.SessionToken(ctx), req.parsed)
	if err != nil {
		h.fail(w, r, "create user", err)
		return
	}
	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"user_id", reg.User.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, RegistrationResponse{
		Msg:          "User, Profile, Status successfully created!",
		Registration: reg,
	})
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdateUser(ctx, requestcontext.UserID(ctx), req.Update); err != nil {
		h.fail(w, r, "update user", err)
		return
	}
	httputil.WriteMessage(w, "Updated user successfully!")
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if err := h.service.DeleteUser(ctx, userID); err != nil {
		h.fail(w, r, "delete user", err)
		return
	}
	h.logger.InfoContext(ctx, "user deleted",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID.String(),
	)
	h.clearSessionCookie(w)
	httputil.WriteMessage(w, "User deleted!")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	token, err := h.service.Login(ctx, requestcontext.SessionToken(ctx), req.Username, req.Password, requestcontext.UserAgent(ctx))
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	h.logger.InfoContext(ctx, "user logged in",
		"request_id", requestID,
		"username", req.Username,
		"client_ip", requestcontext.ClientIP(ctx),
	)
	h.setSessionCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Msg: "Logged in!", Token: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx, requestcontext.SessionToken(ctx)); err != nil {
		h.fail(w, r, "logout", err)
		return
	}
	h.clearSessionCookie(w)
	httputil.WriteMessage(w, "Logged out!")
}

func (h *Handler) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.GetProfiles(r.Context())
	if err != nil {
		h.fail(w, r, "list profiles", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profiles)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "get profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdateProfile(ctx, requestcontext.UserID(ctx), req.Update); err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	httputil.WriteMessage(w, "Profile successfully update!")
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStatus(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "get status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdateStatus(ctx, requestcontext.UserID(ctx), req.Update); err != nil {
		h.fail(w, r, "update status", err)
		return
	}
	httputil.WriteMessage(w, "Status successfully updated!")
}

// handleGetFriendsSameAssignment lists friends on the caller's current assignment.
func (h *Handler) handleGetFriendsSameAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	friends, err := h.service.GetFriendsSameAssignment(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list friends on same assignment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, friends)
}
