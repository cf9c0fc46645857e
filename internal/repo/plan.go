package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"ProjectDesk/internal/reldate"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNoColumns — у проекта нет ни одной колонки доски.
var ErrNoColumns = errors.New("repo: project has no board columns")

// PlanRepository — план проекта: фазы, пакеты работ и результаты.
type PlanRepository interface {
	ListPhases(ctx context.Context, projectID string) ([]model.ProjectPhase, error)
	GetPhase(ctx context.Context, projectID, id string) (*model.ProjectPhase, error)
	CreatePhase(ctx context.Context, p *model.ProjectPhase) (*model.ProjectPhase, error)
	UpdatePhase(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectPhase, error)
	DeletePhase(ctx context.Context, projectID, id string) error
	ReorderPhases(ctx context.Context, projectID string, ids []string) ([]model.ProjectPhase, error)

	ListWorkPackages(ctx context.Context, projectID string) ([]model.WorkPackage, error)
	GetWorkPackage(ctx context.Context, projectID, id string) (*model.WorkPackage, error)
	CreateWorkPackage(ctx context.Context, w *model.WorkPackage) (*model.WorkPackage, error)
	UpdateWorkPackage(ctx context.Context, projectID, id string, fields map[string]any) (*model.WorkPackage, error)
	DeleteWorkPackage(ctx context.Context, projectID, id string) error
	ReorderWorkPackages(ctx context.Context, projectID string, ids []string) ([]model.WorkPackage, error)

	GetDeliverable(ctx context.Context, projectID, id string) (*model.ProjectDeliverable, error)
	CreateDeliverable(ctx context.Context, d *model.ProjectDeliverable) (*model.ProjectDeliverable, error)
	UpdateDeliverable(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectDeliverable, error)
	DeleteDeliverable(ctx context.Context, projectID, id string) error
	// ConvertToTask создаёт задачу в первой колонке и проставляет deliverable.task_id.
	ConvertToTask(ctx context.Context, projectID, id string) (*model.Task, error)

	// ResetStructure удаляет все фазы, пакеты работ и результаты проекта.
	ResetStructure(ctx context.Context, projectID string) error
	// ApplyImport записывает подготовленный план одной транзакцией.
	ApplyImport(ctx context.Context, projectID string, plan ImportPlan) (ImportCounts, error)
}

type planRepo struct {
	db    *gorm.DB
	locks *ordering.Locker
}

func NewPlanRepository(db *gorm.DB, locks *ordering.Locker) PlanRepository {
	return &planRepo{db: db, locks: locks}
}

func bySortOrder(q *gorm.DB) *gorm.DB {
	return q.Order("sort_order ASC")
}

// ---------- Фазы ----------

func (r *planRepo) ListPhases(ctx context.Context, projectID string) ([]model.ProjectPhase, error) {
	return listPhases(r.db.WithContext(ctx), projectID)
}

// listPhases — фазы проекта с пакетами работ, результатами и числом задач.
func listPhases(db *gorm.DB, projectID string) ([]model.ProjectPhase, error) {
	var phases []model.ProjectPhase
	err := db.
		Preload("WorkPackages", bySortOrder).
		Preload("Deliverables", bySortOrder).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&phases).Error
	if err != nil {
		return nil, err
	}
	if err := fillPhaseCounts(db, phases); err != nil {
		return nil, err
	}
	return phases, nil
}

func (r *planRepo) GetPhase(ctx context.Context, projectID, id string) (*model.ProjectPhase, error) {
	var p model.ProjectPhase
	if err := r.db.WithContext(ctx).First(&p, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepo) CreatePhase(ctx context.Context, p *model.ProjectPhase) (*model.ProjectPhase, error) {
	scope := phaseScope(p.ProjectID)
	defer r.locks.Lock(scope.Key())()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		p.SortOrder = next
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *planRepo) UpdatePhase(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectPhase, error) {
	if _, err := r.GetPhase(ctx, projectID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.ProjectPhase{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetPhase(ctx, projectID, id)
}

func (r *planRepo) DeletePhase(ctx context.Context, projectID, id string) error {
	scope := phaseScope(projectID)
	defer r.locks.Lock(scope.Key())()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.ProjectPhase{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
			return err
		}
		// пакеты работ и задачи отвязываются, результаты фазы удаляются
		if err := tx.Model(&model.WorkPackage{}).Where("phase_id = ?", id).Update("phase_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("phase_id = ?", id).Update("phase_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("phase_id = ?", id).Delete(&model.ProjectDeliverable{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.ProjectPhase{}, "id = ?", id).Error; err != nil {
			return err
		}
		return ordering.Compact(tx, scope)
	})
}

func (r *planRepo) ReorderPhases(ctx context.Context, projectID string, ids []string) ([]model.ProjectPhase, error) {
	scope := phaseScope(projectID)
	defer r.locks.Lock(scope.Key())()

	db := r.db.WithContext(ctx)
	if err := db.Transaction(func(tx *gorm.DB) error {
		return ordering.Reorder(tx, scope, ids)
	}); err != nil {
		return nil, err
	}
	var phases []model.ProjectPhase
	if err := db.Where("project_id = ?", projectID).Order("sort_order ASC").Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

// ---------- Пакеты работ ----------

func (r *planRepo) ListWorkPackages(ctx context.Context, projectID string) ([]model.WorkPackage, error) {
	return listWorkPackages(r.db.WithContext(ctx), projectID)
}

func listWorkPackages(db *gorm.DB, projectID string) ([]model.WorkPackage, error) {
	var wps []model.WorkPackage
	err := db.
		Preload("Phase").
		Preload("Deliverables", bySortOrder).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&wps).Error
	if err != nil {
		return nil, err
	}
	if err := fillWorkPackageCounts(db, wps); err != nil {
		return nil, err
	}
	return wps, nil
}

func (r *planRepo) GetWorkPackage(ctx context.Context, projectID, id string) (*model.WorkPackage, error) {
	var w model.WorkPackage
	if err := r.db.WithContext(ctx).Preload("Phase").First(&w, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *planRepo) CreateWorkPackage(ctx context.Context, w *model.WorkPackage) (*model.WorkPackage, error) {
	scope := workPackageScope(w.ProjectID)
	defer r.locks.Lock(scope.Key())()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		w.SortOrder = next
		return tx.Create(w).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetWorkPackage(ctx, w.ProjectID, w.ID)
}

func (r *planRepo) UpdateWorkPackage(ctx context.Context, projectID, id string, fields map[string]any) (*model.WorkPackage, error) {
	if _, err := r.GetWorkPackage(ctx, projectID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.WorkPackage{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetWorkPackage(ctx, projectID, id)
}

func (r *planRepo) DeleteWorkPackage(ctx context.Context, projectID, id string) error {
	scope := workPackageScope(projectID)
	defer r.locks.Lock(scope.Key())()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.WorkPackage{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("work_package_id = ?", id).Update("work_package_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("work_package_id = ?", id).Delete(&model.ProjectDeliverable{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.WorkPackage{}, "id = ?", id).Error; err != nil {
			return err
		}
		return ordering.Compact(tx, scope)
	})
}

func (r *planRepo) ReorderWorkPackages(ctx context.Context, projectID string, ids []string) ([]model.WorkPackage, error) {
	scope := workPackageScope(projectID)
	defer r.locks.Lock(scope.Key())()

	db := r.db.WithContext(ctx)
	if err := db.Transaction(func(tx *gorm.DB) error {
		return ordering.Reorder(tx, scope, ids)
	}); err != nil {
		return nil, err
	}
	var wps []model.WorkPackage
	if err := db.Preload("Phase").Where("project_id = ?", projectID).Order("sort_order ASC").Find(&wps).Error; err != nil {
		return nil, err
	}
	return wps, nil
}

// ---------- Результаты ----------

func (r *planRepo) GetDeliverable(ctx context.Context, projectID, id string) (*model.ProjectDeliverable, error) {
	var d model.ProjectDeliverable
	if err := r.db.WithContext(ctx).First(&d, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *planRepo) CreateDeliverable(ctx context.Context, d *model.ProjectDeliverable) (*model.ProjectDeliverable, error) {
	scope := deliverableScope(d.PhaseID, d.WorkPackageID)
	defer r.locks.Lock(scope.Key())()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		d.SortOrder = next
		return tx.Create(d).Error
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *planRepo) UpdateDeliverable(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectDeliverable, error) {
	if _, err := r.GetDeliverable(ctx, projectID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.ProjectDeliverable{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetDeliverable(ctx, projectID, id)
}

func (r *planRepo) DeleteDeliverable(ctx context.Context, projectID, id string) error {
	d, err := r.GetDeliverable(ctx, projectID, id)
	if err != nil {
		return err
	}
	scope := deliverableScope(d.PhaseID, d.WorkPackageID)
	defer r.locks.Lock(scope.Key())()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.ProjectDeliverable{}, "id = ? AND project_id = ?", id, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ordering.Compact(tx, scope)
	})
}

func (r *planRepo) ConvertToTask(ctx context.Context, projectID, id string) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	d, err := r.GetDeliverable(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	col, err := firstColumn(db, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	scope := taskScope(col.ID)
	defer r.locks.Lock(scope.Key())()

	category := string(d.Type)
	t := &model.Task{
		ProjectID:     projectID,
		ColumnID:      col.ID,
		Title:         d.Title,
		Description:   d.Description,
		DueDate:       d.DueDate,
		PhaseID:       d.PhaseID,
		WorkPackageID: d.WorkPackageID,
		Category:      &category,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		t.Order = next
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return tx.Model(&model.ProjectDeliverable{}).Where("id = ?", d.ID).Update("task_id", t.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return getTask(db, projectID, t.ID)
}

// ---------- Структура целиком ----------

func (r *planRepo) ResetStructure(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Project{}, "id = ?", projectID).Error; err != nil {
			return err
		}
		err := tx.Model(&model.Task{}).
			Where("project_id = ? AND (phase_id IS NOT NULL OR work_package_id IS NOT NULL)", projectID).
			Updates(map[string]any{"phase_id": nil, "work_package_id": nil}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.ProjectDeliverable{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.WorkPackage{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", projectID).Delete(&model.ProjectPhase{}).Error
	})
}

// recomputeRelative пересчитывает даты, заданные относительно T0, для всего плана проекта.
// Абсолютные даты без относительной записи не меняются.
func recomputeRelative(tx *gorm.DB, projectID string, t0 *time.Time) error {
	var phases []model.ProjectPhase
	err := tx.Where("project_id = ? AND (start_date_relative IS NOT NULL OR end_date_relative IS NOT NULL)", projectID).
		Find(&phases).Error
	if err != nil {
		return err
	}
	for _, p := range phases {
		fields := relativeFields(p.StartDateRelative, p.EndDateRelative, t0)
		if err := tx.Model(&model.ProjectPhase{}).Where("id = ?", p.ID).Updates(fields).Error; err != nil {
			return err
		}
	}

	var wps []model.WorkPackage
	err = tx.Where("project_id = ? AND (start_date_relative IS NOT NULL OR end_date_relative IS NOT NULL)", projectID).
		Find(&wps).Error
	if err != nil {
		return err
	}
	for _, w := range wps {
		fields := relativeFields(w.StartDateRelative, w.EndDateRelative, t0)
		if err := tx.Model(&model.WorkPackage{}).Where("id = ?", w.ID).Updates(fields).Error; err != nil {
			return err
		}
	}

	var ds []model.ProjectDeliverable
	if err := tx.Where("project_id = ? AND due_date_relative IS NOT NULL", projectID).Find(&ds).Error; err != nil {
		return err
	}
	for _, d := range ds {
		due := dateValue(reldate.Resolve(*d.DueDateRelative, t0))
		if err := tx.Model(&model.ProjectDeliverable{}).Where("id = ?", d.ID).Update("due_date", due).Error; err != nil {
			return err
		}
	}
	return nil
}

func relativeFields(start, end *string, t0 *time.Time) map[string]any {
	fields := make(map[string]any, 2)
	if start != nil {
		fields["start_date"] = dateValue(reldate.Resolve(*start, t0))
	}
	if end != nil {
		fields["end_date"] = dateValue(reldate.Resolve(*end, t0))
	}
	return fields
}

func fillPhaseCounts(db *gorm.DB, phases []model.ProjectPhase) error {
	ids := make([]string, len(phases))
	for i := range phases {
		ids[i] = phases[i].ID
	}
	tasks, err := countBy(db, tableTasks, "phase_id", ids)
	if err != nil {
		return err
	}
	for i := range phases {
		n := tasks[phases[i].ID]
		phases[i].Count = &model.Count{Tasks: &n}
	}
	return nil
}

func fillWorkPackageCounts(db *gorm.DB, wps []model.WorkPackage) error {
	ids := make([]string, len(wps))
	for i := range wps {
		ids[i] = wps[i].ID
	}
	tasks, err := countBy(db, tableTasks, "work_package_id", ids)
	if err != nil {
		return err
	}
	for i := range wps {
		n := tasks[wps[i].ID]
		wps[i].Count = &model.Count{Tasks: &n}
	}
	return nil
}
