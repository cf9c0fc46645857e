package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiaryRepository — записи дневника, их изображения и комментарии.
type DiaryRepository interface {
	List(ctx context.Context, projectID string) ([]model.DiaryEntry, error)
	// Days возвращает различные даты записей в диапазоне [from, to].
	Days(ctx context.Context, projectID string, from, to time.Time) ([]time.Time, error)
	ByDate(ctx context.Context, projectID string, day time.Time) ([]model.DiaryEntry, error)
	Get(ctx context.Context, projectID, id string) (*model.DiaryEntry, error)
	Create(ctx context.Context, e *model.DiaryEntry) (*model.DiaryEntry, error)
	Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.DiaryEntry, error)
	// Delete удаляет запись и возвращает пути её изображений.
	Delete(ctx context.Context, projectID, id string) ([]string, error)

	AddImage(ctx context.Context, projectID, entryID, filename, path string) (*model.DiaryImage, error)
	RemoveImage(ctx context.Context, projectID, entryID, imageID string) (string, error)
	AddComment(ctx context.Context, projectID, entryID, content string) (*model.DiaryComment, error)
}

type diaryRepo struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepo{db: db}
}

func withDiaryDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Images", func(q *gorm.DB) *gorm.DB { return q.Order("uploaded_at ASC") }).
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") })
}

func (r *diaryRepo) List(ctx context.Context, projectID string) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := withDiaryDetails(r.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) Days(ctx context.Context, projectID string, from, to time.Time) ([]time.Time, error) {
	return distinctDays(r.db.WithContext(ctx), &model.DiaryEntry{}, projectID, from, to)
}

// distinctDays — общий запрос календаря для дневника и событий.
func distinctDays(db *gorm.DB, m any, projectID string, from, to time.Time) ([]time.Time, error) {
	var days []datatypes.Date
	err := db.Model(m).
		Distinct("date").
		Where("project_id = ? AND date >= ? AND date <= ?", projectID, datatypes.Date(from), datatypes.Date(to)).
		Order("date ASC").
		Pluck("date", &days).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = time.Time(d)
	}
	return out, nil
}

func (r *diaryRepo) ByDate(ctx context.Context, projectID string, day time.Time) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := withDiaryDetails(r.db.WithContext(ctx)).
		Where("project_id = ? AND date = ?", projectID, datatypes.Date(day)).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) Get(ctx context.Context, projectID, id string) (*model.DiaryEntry, error) {
	var e model.DiaryEntry
	if err := withDiaryDetails(r.db.WithContext(ctx)).First(&e, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *diaryRepo) Create(ctx context.Context, e *model.DiaryEntry) (*model.DiaryEntry, error) {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, e.ProjectID, e.ID)
}

func (r *diaryRepo) Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.DiaryEntry, error) {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&model.DiaryEntry{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := db.Model(&model.DiaryEntry{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, projectID, id)
}

func (r *diaryRepo) Delete(ctx context.Context, projectID, id string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.DiaryEntry{}, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.DiaryImage{}).Where("diary_entry_id = ?", id).Pluck("path", &paths).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DiaryEntry{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *diaryRepo) exists(db *gorm.DB, projectID, id string) error {
	return db.Select("id").First(&model.DiaryEntry{}, "id = ? AND project_id = ?", id, projectID).Error
}

func (r *diaryRepo) AddImage(ctx context.Context, projectID, entryID, filename, path string) (*model.DiaryImage, error) {
	db := r.db.WithContext(ctx)
	if err := r.exists(db, projectID, entryID); err != nil {
		return nil, err
	}
	img := &model.DiaryImage{DiaryEntryID: entryID, Filename: filename, Path: path}
	if err := db.Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (r *diaryRepo) RemoveImage(ctx context.Context, projectID, entryID, imageID string) (string, error) {
	var img model.DiaryImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.DiaryImage{}).
			Joins("JOIN diary_entries ON diary_entries.id = diary_images.diary_entry_id").
			Where("diary_images.id = ? AND diary_images.diary_entry_id = ? AND diary_entries.project_id = ?", imageID, entryID, projectID).
			First(&img).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.DiaryImage{}, "id = ?", img.ID).Error
	})
	if err != nil {
		return "", err
	}
	return img.Path, nil
}

func (r *diaryRepo) AddComment(ctx context.Context, projectID, entryID, content string) (*model.DiaryComment, error) {
	db := r.db.WithContext(ctx)
	if err := r.exists(db, projectID, entryID); err != nil {
		return nil, err
	}
	c := &model.DiaryComment{DiaryEntryID: entryID, Content: content}
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}
