package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ProjectHandler — проекты.
type ProjectHandler struct {
	*api
	Projects *service.ProjectService
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.Rename(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), projectID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

// BoardHandler — колонки доски.
type BoardHandler struct {
	*api
	Board *service.BoardService
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	cols, err := h.Board.List(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ColumnInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Board.Create(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *BoardHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var in service.ColumnInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Board.Rename(r.Context(), projectID(r), chi.URLParam(r, "columnId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *BoardHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderColumnsInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	cols, err := h.Board.Reorder(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Board.Delete(r.Context(), projectID(r), chi.URLParam(r, "columnId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}
