package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type DiaryHandler struct {
	*api
	Diary *service.DiaryService
}

func entryID(r *http.Request) string { return chi.URLParam(r, "entryId") }

// yearMonth читает ?year=&month= для календарных запросов.
func yearMonth(r *http.Request) (int, int, error) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Diary.List(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *DiaryHandler) CalendarDays(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	days, err := h.Diary.CalendarDays(r.Context(), projectID(r), year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *DiaryHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Diary.ByDate(r.Context(), projectID(r), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Diary.Get(r.Context(), projectID(r), entryID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.DiaryInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.Diary.Create(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.DiaryPatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.Diary.Update(r.Context(), projectID(r), entryID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Diary.Delete(r.Context(), projectID(r), entryID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *DiaryHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	u, err := h.upload(w, r, h.Config.UploadMaxMB)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	img, err := h.Diary.AddImage(r.Context(), projectID(r), entryID(r), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *DiaryHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	if err := h.Diary.RemoveImage(r.Context(), projectID(r), entryID(r), chi.URLParam(r, "imageId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *DiaryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in service.CommentInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Diary.AddComment(r.Context(), projectID(r), entryID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
