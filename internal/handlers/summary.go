package handlers

import (
	"ProjectDesk/internal/repo"
	"ProjectDesk/internal/service"
	"net/http"
	"strings"
	"time"
)

// SummaryHandler — сводка проекта, импорт плана, T0 и сброс структуры.
type SummaryHandler struct {
	*api
	Summary  *service.SummaryService
	Importer *service.ImportService
}

// importResponse — итог импорта.
type importResponse struct {
	OK     bool              `json:"ok"`
	Counts repo.ImportCounts `json:"counts"`
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Summary.Get(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Import принимает файл плана (JSON или YAML) в multipart-поле "file"
// либо сам документ в теле запроса.
func (h *SummaryHandler) Import(w http.ResponseWriter, r *http.Request) {
	var (
		u   service.Upload
		err error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		u, err = h.upload(w, r, h.Config.ImportMaxMB)
	} else {
		u, err = h.rawBody(w, r)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	counts, err := h.Importer.Import(r.Context(), projectID(r), u.Filename, u.ContentType, u.Data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{OK: true, Counts: counts})
}

func (h *SummaryHandler) SetT0(w http.ResponseWriter, r *http.Request) {
	var in service.T0Input
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Summary.SetT0(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *SummaryHandler) ResetStructure(w http.ResponseWriter, r *http.Request) {
	if err := h.Summary.ResetStructure(r.Context(), projectID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

// SearchHandler — поиск по задачам и дневнику.
type SearchHandler struct {
	*api
	Searcher *service.SearchService
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Searcher.Search(r.Context(), q.Get("q"), q.Get("projectId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Health — проверка живости сервера.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
