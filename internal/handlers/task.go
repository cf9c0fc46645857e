package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TaskHandler — задачи доски, комментарии и вложения.
type TaskHandler struct {
	*api
	Tasks *service.TaskService
}

func taskID(r *http.Request) string { return chi.URLParam(r, "taskId") }

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// NearestDue — ближайшие по сроку незавершённые задачи (?limit=, по умолчанию 5).
func (h *TaskHandler) NearestDue(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tasks, err := h.Tasks.NearestDue(r.Context(), projectID(r), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tasks.Create(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), projectID(r), taskID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.TaskPatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tasks.Update(r.Context(), projectID(r), taskID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), projectID(r), taskID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	var in service.MoveInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tasks.Move(r.Context(), projectID(r), taskID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in service.CommentInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Tasks.AddComment(r.Context(), projectID(r), taskID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// AddAttachment принимает multipart-поле "file" (только изображения).
func (h *TaskHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	u, err := h.upload(w, r, h.Config.UploadMaxMB)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.Tasks.AddAttachment(r.Context(), projectID(r), taskID(r), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *TaskHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	err := h.Tasks.RemoveAttachment(r.Context(), projectID(r), taskID(r), chi.URLParam(r, "attachmentId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}
