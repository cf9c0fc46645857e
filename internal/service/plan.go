package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const msgNoColumns = "Nessuna colonna sulla board. Aggiungi almeno una colonna (es. Da fare)."

// PlanService — фазы, пакеты работ и результаты. Даты принимаются как
// YYYY-MM-DD или как выражение от T0 и разрешаются по T0 проекта.
type PlanService struct {
	projects repo.ProjectRepository
	plan     repo.PlanRepository
	logger   *zap.SugaredLogger
}

func NewPlanService(projects repo.ProjectRepository, plan repo.PlanRepository, logger *zap.SugaredLogger) *PlanService {
	return &PlanService{projects: projects, plan: plan, logger: logger}
}

type PhaseInput struct {
	Name      string  `json:"name" validate:"required,notblank,max=200"`
	StartDate *string `json:"startDate" validate:"omitempty,dateexpr"`
	EndDate   *string `json:"endDate" validate:"omitempty,dateexpr"`
}

type PhasePatch struct {
	Name      *string                `json:"name" validate:"omitempty,notblank,max=200"`
	StartDate model.Nullable[string] `json:"startDate" validate:"omitempty,dateexpr"`
	EndDate   model.Nullable[string] `json:"endDate" validate:"omitempty,dateexpr"`
}

type ReorderPhasesInput struct {
	PhaseIDs []string `json:"phaseIds" validate:"required,dive,required"`
}

type WorkPackageInput struct {
	Name      string  `json:"name" validate:"required,notblank,max=200"`
	PhaseID   *string `json:"phaseId"`
	StartDate *string `json:"startDate" validate:"omitempty,dateexpr"`
	EndDate   *string `json:"endDate" validate:"omitempty,dateexpr"`
}

type WorkPackagePatch struct {
	Name      *string                `json:"name" validate:"omitempty,notblank,max=200"`
	PhaseID   model.Nullable[string] `json:"phaseId"`
	StartDate model.Nullable[string] `json:"startDate" validate:"omitempty,dateexpr"`
	EndDate   model.Nullable[string] `json:"endDate" validate:"omitempty,dateexpr"`
}

type ReorderWorkPackagesInput struct {
	WorkPackageIDs []string `json:"workPackageIds" validate:"required,dive,required"`
}

type DeliverableInput struct {
	PhaseID         *string               `json:"phaseId"`
	WorkPackageID   *string               `json:"workPackageId"`
	Type            model.DeliverableType `json:"type" validate:"required,oneof=document block_diagram prototype report code other"`
	Title           string                `json:"title" validate:"required,notblank,max=500"`
	Description     *string               `json:"description" validate:"omitempty,max=2000"`
	DueDate         *string               `json:"dueDate" validate:"omitempty,dateexpr"`
	DueDateRelative *string               `json:"dueDateRelative" validate:"omitempty,max=50"`
}

type DeliverablePatch struct {
	Type            *model.DeliverableType `json:"type" validate:"omitempty,oneof=document block_diagram prototype report code other"`
	Title           *string                `json:"title" validate:"omitempty,notblank,max=500"`
	Description     model.Nullable[string] `json:"description" validate:"omitempty,max=2000"`
	DueDate         model.Nullable[string] `json:"dueDate" validate:"omitempty,dateexpr"`
	DueDateRelative model.Nullable[string] `json:"dueDateRelative" validate:"omitempty,max=50"`
}

// projectT0 проверяет проект и возвращает его T0.
func (s *PlanService) projectT0(ctx context.Context, projectID string) (*time.Time, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, notFound(err, msgProjectNotFound)
	}
	return t0Of(p), nil
}

// ---------- Фазы ----------

func (s *PlanService) ListPhases(ctx context.Context, projectID string) ([]model.ProjectPhase, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.plan.ListPhases(ctx, projectID)
}

func (s *PlanService) CreatePhase(ctx context.Context, projectID string, in PhaseInput) (*model.ProjectPhase, error) {
	name, err := boundedText("name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	t0, err := s.projectT0(ctx, projectID)
	if err != nil {
		return nil, err
	}
	span, err := resolveSpan(in.StartDate, in.EndDate, t0)
	if err != nil {
		return nil, err
	}
	return s.plan.CreatePhase(ctx, &model.ProjectPhase{
		ProjectID:         projectID,
		Name:              name,
		StartDate:         dayPtr(span.start),
		EndDate:           dayPtr(span.end),
		StartDateRelative: span.startRel,
		EndDateRelative:   span.endRel,
	})
}

func (s *PlanService) UpdatePhase(ctx context.Context, projectID, id string, in PhasePatch) (*model.ProjectPhase, error) {
	t0, err := s.projectT0(ctx, projectID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name, err := boundedText("name", *in.Name, 200)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if err := patchDates(fields, in.StartDate, in.EndDate, t0); err != nil {
		return nil, err
	}
	p, err := s.plan.UpdatePhase(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgPhaseNotFound)
	}
	return p, nil
}

// DeletePhase отвязывает пакеты работ и задачи, удаляет результаты фазы.
func (s *PlanService) DeletePhase(ctx context.Context, projectID, id string) error {
	return notFound(s.plan.DeletePhase(ctx, projectID, id), msgPhaseNotFound)
}

func (s *PlanService) ReorderPhases(ctx context.Context, projectID string, in ReorderPhasesInput) ([]model.ProjectPhase, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.plan.ReorderPhases(ctx, projectID, in.PhaseIDs)
}

// ---------- Пакеты работ ----------

func (s *PlanService) ListWorkPackages(ctx context.Context, projectID string) ([]model.WorkPackage, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.plan.ListWorkPackages(ctx, projectID)
}

func (s *PlanService) CreateWorkPackage(ctx context.Context, projectID string, in WorkPackageInput) (*model.WorkPackage, error) {
	name, err := boundedText("name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	t0, err := s.projectT0(ctx, projectID)
	if err != nil {
		return nil, err
	}
	span, err := resolveSpan(in.StartDate, in.EndDate, t0)
	if err != nil {
		return nil, err
	}
	phaseID := optionalText(in.PhaseID)
	if err := checkPlanRefs(ctx, s.plan, projectID, phaseID, nil); err != nil {
		return nil, err
	}
	return s.plan.CreateWorkPackage(ctx, &model.WorkPackage{
		ProjectID:         projectID,
		PhaseID:           phaseID,
		Name:              name,
		StartDate:         dayPtr(span.start),
		EndDate:           dayPtr(span.end),
		StartDateRelative: span.startRel,
		EndDateRelative:   span.endRel,
	})
}

func (s *PlanService) UpdateWorkPackage(ctx context.Context, projectID, id string, in WorkPackagePatch) (*model.WorkPackage, error) {
	t0, err := s.projectT0(ctx, projectID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name, err := boundedText("name", *in.Name, 200)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.PhaseID.Set {
		phaseID := optionalText(in.PhaseID.Ptr())
		if _, err := s.plan.GetWorkPackage(ctx, projectID, id); err != nil {
			return nil, notFound(err, msgWorkPackageNotFound)
		}
		if err := checkPlanRefs(ctx, s.plan, projectID, phaseID, nil); err != nil {
			return nil, err
		}
		fields["phase_id"] = phaseID
	}
	if err := patchDates(fields, in.StartDate, in.EndDate, t0); err != nil {
		return nil, err
	}
	w, err := s.plan.UpdateWorkPackage(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgWorkPackageNotFound)
	}
	return w, nil
}

func (s *PlanService) DeleteWorkPackage(ctx context.Context, projectID, id string) error {
	return notFound(s.plan.DeleteWorkPackage(ctx, projectID, id), msgWorkPackageNotFound)
}

func (s *PlanService) ReorderWorkPackages(ctx context.Context, projectID string, in ReorderWorkPackagesInput) ([]model.WorkPackage, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.plan.ReorderWorkPackages(ctx, projectID, in.WorkPackageIDs)
}

// ---------- Результаты ----------

// CreateDeliverable добавляет результат в конец списка родителя.
// Родитель ровно один: фаза или пакет работ.
func (s *PlanService) CreateDeliverable(ctx context.Context, projectID string, in DeliverableInput) (*model.ProjectDeliverable, error) {
	phaseID, wpID := optionalText(in.PhaseID), optionalText(in.WorkPackageID)
	if (phaseID == nil) == (wpID == nil) {
		return nil, apperr.Validation("Indica phaseId o workPackageId")
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("type: tipo di deliverable non valido")
	}
	title, err := boundedText("title", in.Title, 500)
	if err != nil {
		return nil, err
	}
	t0, err := s.projectT0(ctx, projectID)
	if err != nil {
		return nil, err
	}
	due, rel, err := resolveDue(in.DueDate, in.DueDateRelative, t0)
	if err != nil {
		return nil, err
	}
	if err := checkPlanRefs(ctx, s.plan, projectID, phaseID, wpID); err != nil {
		return nil, err
	}
	return s.plan.CreateDeliverable(ctx, &model.ProjectDeliverable{
		ProjectID:       projectID,
		PhaseID:         phaseID,
		WorkPackageID:   wpID,
		Type:            in.Type,
		Title:           title,
		Description:     optionalText(in.Description),
		DueDate:         dayPtr(due),
		DueDateRelative: rel,
	})
}

func (s *PlanService) UpdateDeliverable(ctx context.Context, projectID, id string, in DeliverablePatch) (*model.ProjectDeliverable, error) {
	fields := map[string]any{}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, apperr.Validation("type: tipo di deliverable non valido")
		}
		fields["type"] = *in.Type
	}
	if in.Title != nil {
		title, err := boundedText("title", *in.Title, 500)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if in.Description.Set {
		fields["description"] = optionalText(in.Description.Ptr())
	}
	if in.DueDate.Set || in.DueDateRelative.Set {
		t0, err := s.projectT0(ctx, projectID)
		if err != nil {
			return nil, err
		}
		due, rel, err := resolveDue(in.DueDate.Ptr(), in.DueDateRelative.Ptr(), t0)
		if err != nil {
			return nil, err
		}
		if in.DueDate.Set || due != nil {
			fields["due_date"] = dayValue(due)
		}
		// новая дата без выражения отвязывает результат от T0
		fields["due_date_relative"] = rel
	}
	d, err := s.plan.UpdateDeliverable(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgDeliverableNotFound)
	}
	return d, nil
}

func (s *PlanService) DeleteDeliverable(ctx context.Context, projectID, id string) error {
	return notFound(s.plan.DeleteDeliverable(ctx, projectID, id), msgDeliverableNotFound)
}

// ConvertToTask создаёт задачу в первой колонке доски по данным результата.
func (s *PlanService) ConvertToTask(ctx context.Context, projectID, id string) (*model.Task, error) {
	t, err := s.plan.ConvertToTask(ctx, projectID, id)
	if errors.Is(err, repo.ErrNoColumns) {
		return nil, apperr.Validation(msgNoColumns)
	}
	if err != nil {
		return nil, notFound(err, msgDeliverableNotFound)
	}
	s.logger.Infow("deliverable converted", "deliverable_id", id, "task_id", t.ID)
	return t, nil
}

// span — разобранные даты начала и конца.
type span struct {
	start, end       *time.Time
	startRel, endRel *string
}

func resolveSpan(start, end *string, t0 *time.Time) (span, error) {
	var sp span
	var err error
	if sp.start, sp.startRel, err = dateOrRelative("startDate", start, t0); err != nil {
		return span{}, err
	}
	if sp.end, sp.endRel, err = dateOrRelative("endDate", end, t0); err != nil {
		return span{}, err
	}
	return sp, nil
}

// patchDates добавляет в fields заданные даты вместе с их относительной записью.
// Абсолютная дата стирает прежнее выражение.
func patchDates(fields map[string]any, start, end model.Nullable[string], t0 *time.Time) error {
	for _, f := range []struct {
		name, column string
		value        model.Nullable[string]
	}{
		{"startDate", "start_date", start},
		{"endDate", "end_date", end},
	} {
		if !f.value.Set {
			continue
		}
		d, rel, err := dateOrRelative(f.name, f.value.Ptr(), t0)
		if err != nil {
			return err
		}
		fields[f.column] = dayValue(d)
		fields[f.column+"_relative"] = rel
	}
	return nil
}

// resolveDue объединяет dueDate и dueDateRelative. Выражение имеет приоритет,
// если T0 известна; без T0 остаётся явно переданная дата.
func resolveDue(date, relative *string, t0 *time.Time) (*time.Time, *string, error) {
	due, rel, err := dateOrRelative("dueDate", date, t0)
	if err != nil {
		return nil, nil, err
	}
	if r := optionalText(relative); r != nil {
		d, expr, err := dateOrRelative("dueDateRelative", r, t0)
		if err != nil {
			return nil, nil, err
		}
		if expr == nil {
			return nil, nil, apperr.Validation("dueDateRelative: usa T0 oppure T0+N giorni/settimane/mesi/anni")
		}
		rel = expr
		if d != nil {
			due = d
		}
	}
	return due, rel, nil
}
