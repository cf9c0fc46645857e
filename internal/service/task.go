package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	nearestDueDefault = 5
	nearestDueMax     = 50
)

// TaskService — задачи доски, комментарии и вложения.
type TaskService struct {
	projects repo.ProjectRepository
	board    repo.BoardRepository
	tasks    repo.TaskRepository
	plan     repo.PlanRepository
	blobs    blob.Store
	logger   *zap.SugaredLogger

	// Now — источник текущего времени; подменяется в тестах.
	Now func() time.Time
}

func NewTaskService(projects repo.ProjectRepository, board repo.BoardRepository, tasks repo.TaskRepository,
	plan repo.PlanRepository, blobs blob.Store, logger *zap.SugaredLogger) *TaskService {
	return &TaskService{
		projects: projects,
		board:    board,
		tasks:    tasks,
		plan:     plan,
		blobs:    blobs,
		logger:   logger,
		Now:      time.Now,
	}
}

type TaskInput struct {
	Title         string  `json:"title" validate:"required,notblank,max=300"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	ColumnID      string  `json:"columnId" validate:"required"`
	StartDate     *string `json:"startDate" validate:"omitempty,day"`
	DueDate       *string `json:"dueDate" validate:"omitempty,day"`
	PhaseID       *string `json:"phaseId"`
	WorkPackageID *string `json:"workPackageId"`
	Category      *string `json:"category" validate:"omitempty,oneof=document block_diagram prototype report code test other"`
}

// TaskPatch — частичное обновление: отсутствующее поле не меняется, null очищает.
type TaskPatch struct {
	Title         *string                `json:"title" validate:"omitempty,notblank,max=300"`
	Description   model.Nullable[string] `json:"description" validate:"omitempty,max=5000"`
	StartDate     model.Nullable[string] `json:"startDate" validate:"omitempty,day"`
	DueDate       model.Nullable[string] `json:"dueDate" validate:"omitempty,day"`
	PhaseID       model.Nullable[string] `json:"phaseId"`
	WorkPackageID model.Nullable[string] `json:"workPackageId"`
	Category      model.Nullable[string] `json:"category" validate:"omitempty,oneof=document block_diagram prototype report code test other"`
}

type MoveInput struct {
	ColumnID string `json:"columnId" validate:"required"`
	Order    *int   `json:"order" validate:"required,min=0"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

func (s *TaskService) List(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, projectID)
}

func (s *TaskService) Get(ctx context.Context, projectID, id string) (*model.Task, error) {
	t, err := s.tasks.Get(ctx, projectID, id)
	if err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, projectID string, in TaskInput) (*model.Task, error) {
	title, err := required("title", in.Title)
	if err != nil {
		return nil, err
	}
	start, err := parseDay("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDay("dueDate", in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	if _, err := s.board.Get(ctx, projectID, in.ColumnID); err != nil {
		return nil, invalidRef(err, msgColumnNotFound)
	}
	phaseID, wpID := optionalText(in.PhaseID), optionalText(in.WorkPackageID)
	if err := checkPlanRefs(ctx, s.plan, projectID, phaseID, wpID); err != nil {
		return nil, err
	}

	t := &model.Task{
		ProjectID:     projectID,
		ColumnID:      in.ColumnID,
		Title:         title,
		Description:   in.Description,
		StartDate:     dayPtr(start),
		DueDate:       dayPtr(due),
		PhaseID:       phaseID,
		WorkPackageID: wpID,
		Category:      optionalText(in.Category),
	}
	return s.tasks.Create(ctx, t)
}

func (s *TaskService) Update(ctx context.Context, projectID, id string, in TaskPatch) (*model.Task, error) {
	fields := map[string]any{}
	if in.Title != nil {
		title, err := required("title", *in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if in.Description.Set {
		fields["description"] = in.Description.Ptr()
	}
	for _, f := range []struct {
		name, column string
		value        model.Nullable[string]
	}{
		{"startDate", "start_date", in.StartDate},
		{"dueDate", "due_date", in.DueDate},
	} {
		if !f.value.Set {
			continue
		}
		d, err := parseDay(f.name, f.value.Ptr())
		if err != nil {
			return nil, err
		}
		fields[f.column] = dayValue(d)
	}
	if in.Category.Set {
		fields["category"] = optionalText(in.Category.Ptr())
	}

	var phaseID, wpID *string
	if in.PhaseID.Set {
		phaseID = optionalText(in.PhaseID.Ptr())
		fields["phase_id"] = phaseID
	}
	if in.WorkPackageID.Set {
		wpID = optionalText(in.WorkPackageID.Ptr())
		fields["work_package_id"] = wpID
	}
	if _, err := s.tasks.Get(ctx, projectID, id); err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	if err := checkPlanRefs(ctx, s.plan, projectID, phaseID, wpID); err != nil {
		return nil, err
	}

	t, err := s.tasks.Update(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	return t, nil
}

// Delete удаляет задачу, уплотняет колонку и убирает файлы вложений.
func (s *TaskService) Delete(ctx context.Context, projectID, id string) error {
	paths, err := s.tasks.Delete(ctx, projectID, id)
	if err != nil {
		return notFound(err, msgTaskNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, paths)
	return nil
}

// Move переносит задачу. Позиция за концом колонки прижимается к концу.
func (s *TaskService) Move(ctx context.Context, projectID, id string, in MoveInput) (*model.Task, error) {
	if in.Order == nil || *in.Order < 0 {
		return nil, apperr.Validation("order: deve essere un intero >= 0")
	}
	if _, err := s.tasks.Get(ctx, projectID, id); err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	if _, err := s.board.Get(ctx, projectID, in.ColumnID); err != nil {
		return nil, invalidRef(err, msgColumnNotFound)
	}
	t, err := s.tasks.Move(ctx, projectID, id, in.ColumnID, *in.Order)
	if err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	return t, nil
}

// NearestDue — ближайшие по сроку незавершённые задачи начиная с сегодняшнего дня.
func (s *TaskService) NearestDue(ctx context.Context, projectID string, limit int) ([]model.Task, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	today := reldate.Today(s.Now())
	return s.tasks.NearestDue(ctx, projectID, today, clampLimit(limit, nearestDueDefault, nearestDueMax))
}

func (s *TaskService) AddComment(ctx context.Context, projectID, taskID string, in CommentInput) (*model.TaskComment, error) {
	content, err := required("content", in.Content)
	if err != nil {
		return nil, err
	}
	c, err := s.tasks.AddComment(ctx, projectID, taskID, content)
	if err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	return c, nil
}

// AddAttachment сохраняет изображение в хранилище и привязывает его к задаче.
func (s *TaskService) AddAttachment(ctx context.Context, projectID, taskID string, u Upload) (*model.TaskAttachment, error) {
	if _, err := s.tasks.Get(ctx, projectID, taskID); err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	path, err := storeImage(ctx, s.blobs, u)
	if err != nil {
		return nil, err
	}
	a, err := s.tasks.AddAttachment(ctx, projectID, taskID, displayName(u.Filename), path)
	if err != nil {
		dropStored(ctx, s.blobs, s.logger, path)
		return nil, notFound(err, msgTaskNotFound)
	}
	s.logger.Infow("attachment stored", "task_id", taskID, "path", path, "size", len(u.Data))
	return a, nil
}

func (s *TaskService) RemoveAttachment(ctx context.Context, projectID, taskID, attachmentID string) error {
	path, err := s.tasks.RemoveAttachment(ctx, projectID, taskID, attachmentID)
	if err != nil {
		return notFound(err, msgAttachmentNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, []string{path})
	return nil
}

// checkPlanRefs проверяет, что фаза и пакет работ принадлежат проекту.
func checkPlanRefs(ctx context.Context, plan repo.PlanRepository, projectID string, phaseID, wpID *string) error {
	if phaseID != nil {
		if _, err := plan.GetPhase(ctx, projectID, *phaseID); err != nil {
			return invalidRef(err, msgPhaseNotFound)
		}
	}
	if wpID != nil {
		if _, err := plan.GetWorkPackage(ctx, projectID, *wpID); err != nil {
			return invalidRef(err, msgWorkPackageNotFound)
		}
	}
	return nil
}
