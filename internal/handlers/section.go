package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ConfigHandler — секции конфигурации проекта и ссылки в них.
type ConfigHandler struct {
	*api
	Sections *service.ConfigService
}

func sectionID(r *http.Request) string { return chi.URLParam(r, "sectionId") }

func (h *ConfigHandler) SectionTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Sections.SectionTypes())
}

func (h *ConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Sections.List(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *ConfigHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var in service.SectionInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.Sections.CreateSection(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *ConfigHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var in service.SectionPatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.Sections.UpdateSection(r.Context(), projectID(r), sectionID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ConfigHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.Sections.DeleteSection(r.Context(), projectID(r), sectionID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *ConfigHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderSectionsInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	sections, err := h.Sections.ReorderSections(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *ConfigHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var in service.LinkInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Sections.CreateLink(r.Context(), projectID(r), sectionID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ConfigHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var in service.LinkPatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Sections.UpdateLink(r.Context(), projectID(r), sectionID(r), chi.URLParam(r, "linkId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ConfigHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.Sections.DeleteLink(r.Context(), projectID(r), sectionID(r), chi.URLParam(r, "linkId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *ConfigHandler) ReorderLinks(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderLinksInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	links, err := h.Sections.ReorderLinks(r.Context(), projectID(r), sectionID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}
