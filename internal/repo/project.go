package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectRepository — доступ к проектам.
type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	// Get возвращает проект с колонками и счётчиками.
	Get(ctx context.Context, id string) (*model.Project, error)
	// Exists возвращает gorm.ErrRecordNotFound, если проекта нет.
	Exists(ctx context.Context, id string) error
	// Create создаёт проект вместе с колонками по умолчанию в одной транзакции.
	Create(ctx context.Context, name string) (*model.Project, error)
	Rename(ctx context.Context, id, name string) (*model.Project, error)
	// SetT0 сохраняет T0 и пересчитывает относительные даты плана.
	SetT0(ctx context.Context, id string, t0 *time.Time) (*model.Project, error)
	// Delete удаляет проект каскадом и возвращает пути файлов, которые нужно убрать из хранилища.
	Delete(ctx context.Context, id string) ([]string, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	db := r.db.WithContext(ctx)
	if err := db.Order("created_at DESC").Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	if err := fillProjectCounts(db, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	db := r.db.WithContext(ctx)
	var p model.Project
	err := db.Preload("Columns", func(q *gorm.DB) *gorm.DB {
		return q.Order("position ASC")
	}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := fillColumnCounts(db, p.Columns); err != nil {
		return nil, err
	}
	one := []model.Project{p}
	if err := fillProjectCounts(db, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *projectRepo) Exists(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) Create(ctx context.Context, name string) (*model.Project, error) {
	p := &model.Project{Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		cols := make([]model.BoardColumn, len(model.DefaultColumns))
		for i, n := range model.DefaultColumns {
			cols[i] = model.BoardColumn{ProjectID: p.ID, Name: n, Order: i}
		}
		return tx.Create(&cols).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, p.ID)
}

func (r *projectRepo) Rename(ctx context.Context, id, name string) (*model.Project, error) {
	db := r.db.WithContext(ctx)
	if err := r.Exists(ctx, id); err != nil {
		return nil, err
	}
	if err := db.Model(&model.Project{}).Where("id = ?", id).Update("name", name).Error; err != nil {
		return nil, err
	}
	var p model.Project
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) SetT0(ctx context.Context, id string, t0 *time.Time) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Project{}).Where("id = ?", id).Update("t0_date", dateValue(t0)).Error; err != nil {
			return err
		}
		if err := recomputeRelative(tx, id, t0); err != nil {
			return err
		}
		// перечитываем в новую структуру: gorm не обнуляет уже заполненный T0Date
		p = model.Project{}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Project{}, "id = ?", id).Error; err != nil {
			return err
		}
		var err error
		if paths, err = projectFilePaths(tx, id); err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// projectFilePaths собирает пути вложений задач и изображений дневника проекта.
func projectFilePaths(tx *gorm.DB, projectID string) ([]string, error) {
	var paths []string
	err := tx.Model(&model.TaskAttachment{}).
		Joins("JOIN tasks ON tasks.id = task_attachments.task_id").
		Where("tasks.project_id = ?", projectID).
		Pluck("task_attachments.path", &paths).Error
	if err != nil {
		return nil, err
	}
	var images []string
	err = tx.Model(&model.DiaryImage{}).
		Joins("JOIN diary_entries ON diary_entries.id = diary_images.diary_entry_id").
		Where("diary_entries.project_id = ?", projectID).
		Pluck("diary_images.path", &images).Error
	if err != nil {
		return nil, err
	}
	return append(paths, images...), nil
}

type countRow struct {
	ParentID string
	Total    int64
}

// countBy считает строки table, сгруппированные по внешнему ключу fk.
func countBy(db *gorm.DB, table, fk string, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	err := db.Table(table).
		Select(fk+" AS parent_id, COUNT(*) AS total").
		Where(fk+" IN ?", ids).
		Group(fk).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ParentID] = row.Total
	}
	return out, nil
}

func fillProjectCounts(db *gorm.DB, projects []model.Project) error {
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	tasks, err := countBy(db, tableTasks, "project_id", ids)
	if err != nil {
		return err
	}
	diary, err := countBy(db, "diary_entries", "project_id", ids)
	if err != nil {
		return err
	}
	for i := range projects {
		t, d := tasks[projects[i].ID], diary[projects[i].ID]
		projects[i].Count = &model.Count{Tasks: &t, DiaryEntries: &d}
	}
	return nil
}

func fillColumnCounts(db *gorm.DB, cols []model.BoardColumn) error {
	ids := make([]string, len(cols))
	for i := range cols {
		ids[i] = cols[i].ID
	}
	tasks, err := countBy(db, tableTasks, "column_id", ids)
	if err != nil {
		return err
	}
	for i := range cols {
		n := tasks[cols[i].ID]
		cols[i].Count = &model.Count{Tasks: &n}
	}
	return nil
}

// dateValue превращает *time.Time в значение для Updates (nil -> NULL).
func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return datatypes.Date(*t)
}

// datePtr — *datatypes.Date из *time.Time.
func datePtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
