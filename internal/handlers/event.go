package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	*api
	Events *service.EventService
}

func eventID(r *http.Request) string { return chi.URLParam(r, "eventId") }

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.List(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) CalendarDays(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	days, err := h.Events.CalendarDays(r.Context(), projectID(r), year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *EventHandler) Future(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.Future(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ByDate(r.Context(), projectID(r), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Events.Get(r.Context(), projectID(r), eventID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.EventInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.Events.Create(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.EventPatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.Events.Update(r.Context(), projectID(r), eventID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Events.Delete(r.Context(), projectID(r), eventID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}
