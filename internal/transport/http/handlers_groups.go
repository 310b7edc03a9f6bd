package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/responses"
	"studyhub/internal/task"
	id "studyhub/pkg/domain"
	"studyhub/pkg/platform/httputil"
	"studyhub/pkg/requestcontext"
)

type GroupResponse struct {
	Msg   string               `json:"msg"`
	Group *responses.GroupView `json:"group"`
}

type TaskResponse struct {
	Msg  string     `json:"msg"`
	Task *task.Task `json:"task"`
}

func (h *Handler) handleGetGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups, err := h.service.GetGroups(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list groups", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.GetGroup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, "get group", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateGroupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	g, err := h.service.CreateGroup(ctx, requestcontext.UserID(ctx), req.Name, req.Members)
	if err != nil {
		h.fail(w, r, "create group", err)
		return
	}
	h.logger.InfoContext(ctx, "group created",
		"request_id", requestID,
		"group", g.Name,
		"members", len(g.Members),
	)
	httputil.WriteJSON(w, http.StatusOK, GroupResponse{Msg: "Group successfully created!", Group: g})
}

func (h *Handler) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.JoinGroup(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, "join group", err)
		return
	}
	httputil.WriteMessage(w, "Joined group successfully!")
}

func (h *Handler) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.LeaveGroup(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, "leave group", err)
		return
	}
	httputil.WriteMessage(w, "Left group successfully!")
}

func (h *Handler) handleRemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.service.RemoveGroupMember(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name"), chi.URLParam(r, "member"))
	if err != nil {
		h.fail(w, r, "remove group member", err)
		return
	}
	httputil.WriteMessage(w, "Removed member successfully!")
}

func (h *Handler) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.DeleteGroup(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, "delete group", err)
		return
	}
	httputil.WriteMessage(w, "Group deleted!")
}

func (h *Handler) handleGetGroupMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages, err := h.service.GetGroupMessages(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, "list group messages", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSendGroupMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SendMessageRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SendGroupMessage(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "name"), req.Content); err != nil {
		h.fail(w, r, "send group message", err)
		return
	}
	httputil.WriteMessage(w, "Message sent!")
}

func (h *Handler) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := h.service.GetTasks(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "list tasks", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleGetGroupTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := h.service.GetGroupTasks(ctx, requestcontext.UserID(ctx), chi.URLParam(r, "group"))
	if err != nil {
		h.fail(w, r, "list group tasks", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleAddTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AddTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	t, err := h.service.AddTask(ctx, requestcontext.UserID(ctx), req.Todo, req.Group)
	if err != nil {
		h.fail(w, r, "add task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TaskResponse{Msg: "Task successfully created!", Task: t})
}

func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID, err := id.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "complete task", err)
		return
	}
	if err := h.service.CompleteTask(ctx, requestcontext.UserID(ctx), taskID); err != nil {
		h.fail(w, r, "complete task", err)
		return
	}
	httputil.WriteMessage(w, "Task successfully completed!")
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID, err := id.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "delete task", err)
		return
	}
	if err := h.service.DeleteTask(ctx, requestcontext.UserID(ctx), taskID); err != nil {
		h.fail(w, r, "delete task", err)
		return
	}
	httputil.WriteMessage(w, "Task successfully deleted!")
}
