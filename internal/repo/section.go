package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"context"

	"gorm.io/gorm"
)

// SectionRepository — секции конфигурации проекта и ссылки внутри них.
type SectionRepository interface {
	List(ctx context.Context, projectID string) ([]model.ProjectConfigSection, error)
	Get(ctx context.Context, projectID, id string) (*model.ProjectConfigSection, error)
	Create(ctx context.Context, projectID, name string, typeSlug *string) (*model.ProjectConfigSection, error)
	Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectConfigSection, error)
	Delete(ctx context.Context, projectID, id string) error
	Reorder(ctx context.Context, projectID string, ids []string) ([]model.ProjectConfigSection, error)

	CreateLink(ctx context.Context, projectID, sectionID, label string, url *string) (*model.ProjectLink, error)
	UpdateLink(ctx context.Context, projectID, sectionID, id string, fields map[string]any) (*model.ProjectLink, error)
	DeleteLink(ctx context.Context, projectID, sectionID, id string) error
	ReorderLinks(ctx context.Context, projectID, sectionID string, ids []string) ([]model.ProjectLink, error)
}

type sectionRepo struct {
	db    *gorm.DB
	locks *ordering.Locker
}

func NewSectionRepository(db *gorm.DB, locks *ordering.Locker) SectionRepository {
	return &sectionRepo{db: db, locks: locks}
}

func withLinks(q *gorm.DB) *gorm.DB {
	return q.Preload("Links", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") })
}

func (r *sectionRepo) List(ctx context.Context, projectID string) ([]model.ProjectConfigSection, error) {
	var sections []model.ProjectConfigSection
	err := withLinks(r.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) Get(ctx context.Context, projectID, id string) (*model.ProjectConfigSection, error) {
	var s model.ProjectConfigSection
	if err := withLinks(r.db.WithContext(ctx)).First(&s, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sectionRepo) Create(ctx context.Context, projectID, name string, typeSlug *string) (*model.ProjectConfigSection, error) {
	scope := sectionScope(projectID)
	defer r.locks.Lock(scope.Key())()

	s := &model.ProjectConfigSection{ProjectID: projectID, Name: name, TypeSlug: typeSlug}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		s.Order = next
		return tx.Create(s).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, projectID, s.ID)
}

func (r *sectionRepo) Update(ctx context.Context, projectID, id string, fields map[string]any) (*model.ProjectConfigSection, error) {
	if _, err := r.Get(ctx, projectID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.ProjectConfigSection{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, projectID, id)
}

func (r *sectionRepo) Delete(ctx context.Context, projectID, id string) error {
	scope := sectionScope(projectID)
	defer r.locks.Lock(scope.Key())()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.ProjectConfigSection{}, "id = ? AND project_id = ?", id, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ordering.Compact(tx, scope)
	})
}

func (r *sectionRepo) Reorder(ctx context.Context, projectID string, ids []string) ([]model.ProjectConfigSection, error) {
	scope := sectionScope(projectID)
	defer r.locks.Lock(scope.Key())()

	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ordering.Reorder(tx, scope, ids)
	}); err != nil {
		return nil, err
	}
	return r.List(ctx, projectID)
}

func (r *sectionRepo) CreateLink(ctx context.Context, projectID, sectionID, label string, url *string) (*model.ProjectLink, error) {
	if _, err := r.Get(ctx, projectID, sectionID); err != nil {
		return nil, err
	}
	scope := linkScope(sectionID)
	defer r.locks.Lock(scope.Key())()

	l := &model.ProjectLink{ProjectID: projectID, SectionID: sectionID, Label: label, URL: url}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.Next(tx, scope)
		if err != nil {
			return err
		}
		l.Order = next
		return tx.Create(l).Error
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *sectionRepo) getLink(db *gorm.DB, projectID, sectionID, id string) (*model.ProjectLink, error) {
	var l model.ProjectLink
	if err := db.First(&l, "id = ? AND section_id = ? AND project_id = ?", id, sectionID, projectID).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *sectionRepo) UpdateLink(ctx context.Context, projectID, sectionID, id string, fields map[string]any) (*model.ProjectLink, error) {
	db := r.db.WithContext(ctx)
	if _, err := r.getLink(db, projectID, sectionID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := db.Model(&model.ProjectLink{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.getLink(db, projectID, sectionID, id)
}

func (r *sectionRepo) DeleteLink(ctx context.Context, projectID, sectionID, id string) error {
	scope := linkScope(sectionID)
	defer r.locks.Lock(scope.Key())()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.ProjectLink{}, "id = ? AND section_id = ? AND project_id = ?", id, sectionID, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ordering.Compact(tx, scope)
	})
}

func (r *sectionRepo) ReorderLinks(ctx context.Context, projectID, sectionID string, ids []string) ([]model.ProjectLink, error) {
	if _, err := r.Get(ctx, projectID, sectionID); err != nil {
		return nil, err
	}
	scope := linkScope(sectionID)
	defer r.locks.Lock(scope.Key())()

	db := r.db.WithContext(ctx)
	if err := db.Transaction(func(tx *gorm.DB) error {
		return ordering.Reorder(tx, scope, ids)
	}); err != nil {
		return nil, err
	}
	var links []model.ProjectLink
	if err := db.Where("section_id = ?", sectionID).Order("position ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
