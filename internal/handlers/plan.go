package handlers

import (
	"ProjectDesk/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PlanHandler — фазы, пакеты работ и результаты.
type PlanHandler struct {
	*api
	Plan *service.PlanService
}

// ---------- Фазы ----------

func (h *PlanHandler) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := h.Plan.ListPhases(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, phases)
}

func (h *PlanHandler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	var in service.PhaseInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Plan.CreatePhase(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PlanHandler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	var in service.PhasePatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Plan.UpdatePhase(r.Context(), projectID(r), chi.URLParam(r, "phaseId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PlanHandler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	if err := h.Plan.DeletePhase(r.Context(), projectID(r), chi.URLParam(r, "phaseId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *PlanHandler) ReorderPhases(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderPhasesInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	phases, err := h.Plan.ReorderPhases(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, phases)
}

// ---------- Пакеты работ ----------

func (h *PlanHandler) ListWorkPackages(w http.ResponseWriter, r *http.Request) {
	wps, err := h.Plan.ListWorkPackages(r.Context(), projectID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wps)
}

func (h *PlanHandler) CreateWorkPackage(w http.ResponseWriter, r *http.Request) {
	var in service.WorkPackageInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	wp, err := h.Plan.CreateWorkPackage(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wp)
}

func (h *PlanHandler) UpdateWorkPackage(w http.ResponseWriter, r *http.Request) {
	var in service.WorkPackagePatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	wp, err := h.Plan.UpdateWorkPackage(r.Context(), projectID(r), chi.URLParam(r, "workPackageId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wp)
}

func (h *PlanHandler) DeleteWorkPackage(w http.ResponseWriter, r *http.Request) {
	if err := h.Plan.DeleteWorkPackage(r.Context(), projectID(r), chi.URLParam(r, "workPackageId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *PlanHandler) ReorderWorkPackages(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderWorkPackagesInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	wps, err := h.Plan.ReorderWorkPackages(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wps)
}

// ---------- Результаты ----------

func (h *PlanHandler) CreateDeliverable(w http.ResponseWriter, r *http.Request) {
	var in service.DeliverableInput
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.Plan.CreateDeliverable(r.Context(), projectID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *PlanHandler) UpdateDeliverable(w http.ResponseWriter, r *http.Request) {
	var in service.DeliverablePatch
	if err := h.bind(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.Plan.UpdateDeliverable(r.Context(), projectID(r), chi.URLParam(r, "deliverableId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *PlanHandler) DeleteDeliverable(w http.ResponseWriter, r *http.Request) {
	if err := h.Plan.DeleteDeliverable(r.Context(), projectID(r), chi.URLParam(r, "deliverableId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	noContent(w)
}

// ConvertToTask создаёт задачу из результата в первой колонке доски.
func (h *PlanHandler) ConvertToTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Plan.ConvertToTask(r.Context(), projectID(r), chi.URLParam(r, "deliverableId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
