package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventRepository — события календаря проекта.
type EventRepository interface {
	List(ctx context.Context, projectID string) ([]model.ProjectEvent, error)
	Days(ctx context.Context, projectID string, from, to time.Time) ([]time.Time, error)
	// Future — события начиная с дня from, не больше limit.
	Future(ctx context.Context, projectID string, from time.Time, limit int) ([]model.ProjectEvent, error)
	ByDate(ctx context.Context, projectID string, day time.Time) ([]model.ProjectEvent, error)
	Get(ctx context.Context, projectID, id string) (*model.ProjectEvent, error)
	Create(ctx context.Context, e *model.ProjectEvent) (*model.ProjectEvent, error)
	Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectEvent, error)
	Delete(ctx context.Context, projectID, id string) error
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

// byDateTime — события без времени идут первыми в своём дне.
func byDateTime(q *gorm.DB) *gorm.DB {
	return q.Order("date ASC").Order("COALESCE(event_time, '') ASC").Order("created_at ASC")
}

func (r *eventRepo) List(ctx context.Context, projectID string) ([]model.ProjectEvent, error) {
	var events []model.ProjectEvent
	if err := byDateTime(r.db.WithContext(ctx).Where("project_id = ?", projectID)).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Days(ctx context.Context, projectID string, from, to time.Time) ([]time.Time, error) {
	return distinctDays(r.db.WithContext(ctx), &model.ProjectEvent{}, projectID, from, to)
}

func (r *eventRepo) Future(ctx context.Context, projectID string, from time.Time, limit int) ([]model.ProjectEvent, error) {
	return futureEvents(r.db.WithContext(ctx), projectID, from, limit)
}

func futureEvents(db *gorm.DB, projectID string, from time.Time, limit int) ([]model.ProjectEvent, error) {
	var events []model.ProjectEvent
	q := db.Where("project_id = ? AND date >= ?", projectID, datatypes.Date(from))
	if err := byDateTime(q).Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) ByDate(ctx context.Context, projectID string, day time.Time) ([]model.ProjectEvent, error) {
	var events []model.ProjectEvent
	q := r.db.WithContext(ctx).Where("project_id = ? AND date = ?", projectID, datatypes.Date(day))
	if err := byDateTime(q).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Get(ctx context.Context, projectID, id string) (*model.ProjectEvent, error) {
	var e model.ProjectEvent
	if err := r.db.WithContext(ctx).First(&e, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) Create(ctx context.Context, e *model.ProjectEvent) (*model.ProjectEvent, error) {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepo) Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectEvent, error) {
	if _, err := r.Get(ctx, projectID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.ProjectEvent{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, projectID, id)
}

func (r *eventRepo) Delete(ctx context.Context, projectID, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.ProjectEvent{}, "id = ? AND project_id = ?", id, projectID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
