package handlers

import (
	"ProjectDesk/internal/blob"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// FileHandler отдаёт загруженные файлы из хранилища по пути /uploads/{name}.
type FileHandler struct {
	*api
	Blobs blob.Store
}

func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !blob.ValidName(name) {
		http.NotFound(w, r)
		return
	}
	data, contentType, err := h.Blobs.Get(r.Context(), name)
	if errors.Is(err, blob.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if contentType == "" {
		contentType = blob.ContentTypeOf(name)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
