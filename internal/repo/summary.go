package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// SummaryData — всё, что нужно для сводки проекта, загруженное за один проход.
type SummaryData struct {
	Project      model.Project
	Columns      []model.BoardColumn
	Phases       []model.ProjectPhase
	WorkPackages []model.WorkPackage
	Tasks        []model.Task
	FutureEvents []model.ProjectEvent
	DiaryCount   int64
}

type SummaryRepository interface {
	// Load читает данные сводки; события берутся начиная с from, не больше eventLimit.
	Load(ctx context.Context, projectID string, from time.Time, eventLimit int) (*SummaryData, error)
}

type summaryRepo struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepo{db: db}
}

func (r *summaryRepo) Load(ctx context.Context, projectID string, from time.Time, eventLimit int) (*SummaryData, error) {
	db := r.db.WithContext(ctx)
	out := &SummaryData{}
	if err := db.First(&out.Project, "id = ?", projectID).Error; err != nil {
		return nil, err
	}

	err := db.Where("project_id = ?", projectID).Order("position ASC").Find(&out.Columns).Error
	if err != nil {
		return nil, err
	}
	if err := fillColumnCounts(db, out.Columns); err != nil {
		return nil, err
	}
	if out.Phases, err = listPhases(db, projectID); err != nil {
		return nil, err
	}
	if out.WorkPackages, err = listWorkPackages(db, projectID); err != nil {
		return nil, err
	}

	err = db.
		Preload("Column").
		Preload("Phase").
		Preload("WorkPackage").
		Preload("Deliverable").
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Order("position ASC").
		Find(&out.Tasks).Error
	if err != nil {
		return nil, err
	}

	if out.FutureEvents, err = futureEvents(db, projectID, from, eventLimit); err != nil {
		return nil, err
	}
	if err := db.Model(&model.DiaryEntry{}).Where("project_id = ?", projectID).Count(&out.DiaryCount).Error; err != nil {
		return nil, err
	}
	return out, nil
}
