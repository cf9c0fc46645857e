package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"context"

	"gorm.io/gorm"
)

// BoardRepository — колонки канбан-доски.
type BoardRepository interface {
	// List возвращает колонки по порядку вместе с задачами.
	List(ctx context.Context, projectID string) ([]model.BoardColumn, error)
	Get(ctx context.Context, projectID, id string) (*model.BoardColumn, error)
	// First возвращает первую по порядку колонку проекта.
	First(ctx context.Context, projectID string) (*model.BoardColumn, error)
	Create(ctx context.Context, projectID, name string) (*model.BoardColumn, error)
	Rename(ctx context.Context, projectID, id, name string) (*model.BoardColumn, error)
	Reorder(ctx context.Context, projectID string, ids []string) ([]model.BoardColumn, error)
	// Delete удаляет колонку с задачами и возвращает пути их вложений.
	Delete(ctx context.Context, projectID, id string) ([]string, error)
}

type boardRepo struct {
	db    *gorm.DB
	locks *ordering.Locker
}

func NewBoardRepository(db *gorm.DB, locks *ordering.Locker) BoardRepository {
	return &boardRepo{db: db, locks: locks}
}

// withTaskDetails — связи задачи, которые отдаются вместе с ней.
func withTaskDetails(q *gorm.DB, prefix string) *gorm.DB {
	return q.
		Preload(prefix+"Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload(prefix + "Attachments").
		Preload(prefix + "Phase").
		Preload(prefix + "WorkPackage")
}

func (r *boardRepo) List(ctx context.Context, projectID string) ([]model.BoardColumn, error) {
	var cols []model.BoardColumn
	q := r.db.WithContext(ctx).
		Preload("Tasks", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") })
	err := withTaskDetails(q, "Tasks.").
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&cols).Error
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *boardRepo) Get(ctx context.Context, projectID, id string) (*model.BoardColumn, error) {
	var c model.BoardColumn
	if err := r.db.WithContext(ctx).First(&c, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *boardRepo) First(ctx context.Context, projectID string) (*model.BoardColumn, error) {
	return firstColumn(r.db.WithContext(ctx), projectID)
}

func firstColumn(tx *gorm.DB, projectID string) (*model.BoardColumn, error) {
	var c model.BoardColumn
	err := tx.Where("project_id = ?", projectID).Order("position ASC").Order("id").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *boardRepo) Create(ctx context.Context, projectID, name string) (*model.BoardColumn, error) {
	scope := columnScope(projectID)
	defer r.locks.Lock(scope.Key())()

	c := &model.BoardColumn{ProjectID: projectID, Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		c.Order = next
		return tx.Create(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *boardRepo) Rename(ctx context.Context, projectID, id, name string) (*model.BoardColumn, error) {
	c, err := r.Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(c).Update("name", name).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *boardRepo) Reorder(ctx context.Context, projectID string, ids []string) ([]model.BoardColumn, error) {
	scope := columnScope(projectID)
	defer r.locks.Lock(scope.Key())()

	db := r.db.WithContext(ctx)
	if err := db.Transaction(func(tx *gorm.DB) error {
		return ordering.Reorder(tx, scope, ids)
	}); err != nil {
		return nil, err
	}
	var cols []model.BoardColumn
	if err := db.Where("project_id = ?", projectID).Order("position ASC").Find(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *boardRepo) Delete(ctx context.Context, projectID, id string) ([]string, error) {
	scope := columnScope(projectID)
	defer r.locks.Lock(scope.Key())()

	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.BoardColumn{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
			return err
		}
		err := tx.Model(&model.TaskAttachment{}).
			Joins("JOIN tasks ON tasks.id = task_attachments.task_id").
			Where("tasks.column_id = ?", id).
			Pluck("task_attachments.path", &paths).Error
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.BoardColumn{}, "id = ?", id).Error; err != nil {
			return err
		}
		return ordering.Compact(tx, scope)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
