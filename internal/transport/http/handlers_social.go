package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/responses"
	id "studyhub/pkg/domain"
	"studyhub/pkg/platform/httputil"
	"studyhub/pkg/requestcontext"
)

type PostResponse struct {
	Msg  string              `json:"msg"`
	Post *responses.PostView `json:"post"`
}

type MessageResponse struct {
	Msg     string                 `json:"msg"`
	Message *responses.MessageView `json:"message"`
}

// handleGetPosts lists all posts, or one author's with ?author=username.
func (h *Handler) handleGetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetPosts(r.Context(), r.URL.Query().Get("author"))
	if err != nil {
		h.fail(w, r, "list posts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreatePostRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.CreatePost(ctx, requestcontext.UserID(ctx), req.Content, req.Options)
	if err != nil {
		h.fail(w, r, "create post", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PostResponse{Msg: "Post successfully created!", Post: p})
}

func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID, err := id.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "update post", err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdatePost(ctx, requestcontext.UserID(ctx), postID, req.Update); err != nil {
		h.fail(w, r, "update post", err)
		return
	}
	httputil.WriteMessage(w, "Post successfully updated!")
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID, err := id.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "delete post", err)
		return
	}
	if err := h.service.DeletePost(ctx, requestcontext.UserID(ctx), postID); err != nil {
		h.fail(w, r, "delete post", err)
		return
	}
	httputil.WriteMessage(w, "Post deleted successfully!")
}

func (h *Handler) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	friends, err := h.service.GetFriends(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list friends", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, friends)
}

func (h *Handler) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.RemoveFriend(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "friend")); err != nil {
		h.fail(w, r, "remove friend", err)
		return
	}
	httputil.WriteMessage(w, "Unfriended!")
}

func (h *Handler) handleGetFriendRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requests, err := h.service.GetFriendRequests(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list friend requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.SendFriendRequest(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "to")); err != nil {
		h.fail(w, r, "send friend request", err)
		return
	}
	httputil.WriteMessage(w, "Sent request!")
}

func (h *Handler) handleRemoveFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.RemoveFriendRequest(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "to")); err != nil {
		h.fail(w, r, "remove friend request", err)
		return
	}
	httputil.WriteMessage(w, "Removed request!")
}

func (h *Handler) handleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.AcceptFriendRequest(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "from")); err != nil {
		h.fail(w, r, "accept friend request", err)
		return
	}
	httputil.WriteMessage(w, "Accepted request!")
}

func (h *Handler) handleRejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.RejectFriendRequest(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "from")); err != nil {
		h.fail(w, r, "reject friend request", err)
		return
	}
	httputil.WriteMessage(w, "Rejected request!")
}

func (h *Handler) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages, err := h.service.GetMessages(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list messages", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleGetMessagesBetween(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages, err := h.service.GetMessagesBetween(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "list conversation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SendMessageRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	m, err := h.service.SendMessage(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "to"), req.Content)
	if err != nil {
		h.fail(w, r, "send message", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Msg: "Message sent!", Message: m})
}
