package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"context"
	"time"

	"gorm.io/gorm"
)

// TaskRepository — задачи доски, их комментарии и вложения.
type TaskRepository interface {
	List(ctx context.Context, projectID string) ([]model.Task, error)
	Get(ctx context.Context, projectID, id string) (*model.Task, error)
	// Create добавляет задачу в конец колонки t.ColumnID.
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	// Update применяет частичное обновление: ключи — имена колонок.
	Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.Task, error)
	// Delete удаляет задачу и возвращает пути её вложений.
	Delete(ctx context.Context, projectID, id string) ([]string, error)
	// Move переносит задачу в колонку columnID на позицию target.
	Move(ctx context.Context, projectID, id, columnID string, target int) (*model.Task, error)
	// NearestDue — задачи со сроком не раньше from вне колонки "Completato".
	NearestDue(ctx context.Context, projectID string, from time.Time, limit int) ([]model.Task, error)

	AddComment(ctx context.Context, projectID, taskID, content string) (*model.TaskComment, error)
	AddAttachment(ctx context.Context, projectID, taskID, filename, path string) (*model.TaskAttachment, error)
	// RemoveAttachment удаляет строку вложения и возвращает путь файла.
	RemoveAttachment(ctx context.Context, projectID, taskID, attachmentID string) (string, error)
}

type taskRepo struct {
	db    *gorm.DB
	locks *ordering.Locker
}

func NewTaskRepository(db *gorm.DB, locks *ordering.Locker) TaskRepository {
	return &taskRepo{db: db, locks: locks}
}

func (r *taskRepo) List(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	err := withTaskDetails(r.db.WithContext(ctx), "").
		Where("project_id = ?", projectID).
		Order("column_id ASC").
		Order("position ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) Get(ctx context.Context, projectID, id string) (*model.Task, error) {
	return getTask(r.db.WithContext(ctx), projectID, id)
}

func getTask(tx *gorm.DB, projectID, id string) (*model.Task, error) {
	var t model.Task
	if err := withTaskDetails(tx, "").First(&t, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	scope := taskScope(t.ColumnID)
	defer r.locks.Lock(scope.Key())()

	db := r.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		t.Order = next
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, err
	}
	return getTask(db, t.ProjectID, t.ID)
}

func (r *taskRepo) Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Task{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&model.Task{}).Where("id = ?", id).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return getTask(db, projectID, id)
}

func (r *taskRepo) Delete(ctx context.Context, projectID, id string) ([]string, error) {
	var t model.Task
	db := r.db.WithContext(ctx)
	if err := db.Select("id", "column_id").First(&t, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	scope := taskScope(t.ColumnID)
	defer r.locks.Lock(scope.Key())()

	var paths []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TaskAttachment{}).Where("task_id = ?", id).Pluck("path", &paths).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Task{}, "id = ? AND project_id = ?", id, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ordering.Compact(tx, scope)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *taskRepo) Move(ctx context.Context, projectID, id, columnID string, target int) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	var t model.Task
	if err := db.Select("id", "column_id").First(&t, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	dst := taskScope(columnID)
	defer r.locks.LockMany(taskScope(t.ColumnID).Key(), dst.Key())()

	err := db.Transaction(func(tx *gorm.DB) error {
		ids, err := ordering.IDs(tx, dst)
		if err != nil {
			return err
		}
		if t.ColumnID == columnID {
			plan, changed := ordering.Reposition(ids, id, target)
			if !changed {
				return nil
			}
			return ordering.Apply(tx, dst, plan)
		}
		// исходная колонка не перенумеровывается
		if err := tx.Model(&model.Task{}).Where("id = ?", id).Update("column_id", columnID).Error; err != nil {
			return err
		}
		return ordering.Apply(tx, dst, ordering.Insert(ids, id, target))
	})
	if err != nil {
		return nil, err
	}
	return getTask(db, projectID, id)
}

func (r *taskRepo) NearestDue(ctx context.Context, projectID string, from time.Time, limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Column").
		Joins("JOIN board_columns ON board_columns.id = tasks.column_id").
		Where("tasks.project_id = ?", projectID).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date >= ?", from).
		Where("LOWER(board_columns.name) <> ?", model.CompletedColumn).
		Order("tasks.due_date ASC").
		Order("tasks.position ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) AddComment(ctx context.Context, projectID, taskID, content string) (*model.TaskComment, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&model.Task{}, "id = ? AND project_id = ?", taskID, projectID).Error; err != nil {
		return nil, err
	}
	c := &model.TaskComment{TaskID: taskID, Content: content}
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *taskRepo) AddAttachment(ctx context.Context, projectID, taskID, filename, path string) (*model.TaskAttachment, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&model.Task{}, "id = ? AND project_id = ?", taskID, projectID).Error; err != nil {
		return nil, err
	}
	a := &model.TaskAttachment{TaskID: taskID, Filename: filename, Path: path}
	if err := db.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *taskRepo) RemoveAttachment(ctx context.Context, projectID, taskID, attachmentID string) (string, error) {
	var a model.TaskAttachment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.TaskAttachment{}).
			Joins("JOIN tasks ON tasks.id = task_attachments.task_id").
			Where("task_attachments.id = ? AND task_attachments.task_id = ? AND tasks.project_id = ?", attachmentID, taskID, projectID).
			First(&a).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.TaskAttachment{}, "id = ?", a.ID).Error
	})
	if err != nil {
		return "", err
	}
	return a.Path, nil
}
