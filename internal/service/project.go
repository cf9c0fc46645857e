package service

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
)

// ProjectService — проекты: создание с колонками по умолчанию, переименование, удаление с файлами.
type ProjectService struct {
	projects repo.ProjectRepository
	blobs    blob.Store
	logger   *zap.SugaredLogger
}

func NewProjectService(projects repo.ProjectRepository, blobs blob.Store, logger *zap.SugaredLogger) *ProjectService {
	return &ProjectService{projects: projects, blobs: blobs, logger: logger}
}

type ProjectInput struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, msgProjectNotFound)
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("project created", "project_id", p.ID)
	return p, nil
}

func (s *ProjectService) Rename(ctx context.Context, id string, in ProjectInput) (*model.Project, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.Rename(ctx, id, name)
	if err != nil {
		return nil, notFound(err, msgProjectNotFound)
	}
	return p, nil
}

// Delete удаляет проект каскадом, затем (без гарантий) его файлы.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	paths, err := s.projects.Delete(ctx, id)
	if err != nil {
		return notFound(err, msgProjectNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, paths)
	s.logger.Infow("project deleted", "project_id", id, "files", len(paths))
	return nil
}

// projectExists — 404, если проекта нет.
func projectExists(ctx context.Context, projects repo.ProjectRepository, id string) error {
	return notFound(projects.Exists(ctx, id), msgProjectNotFound)
}

// t0Of — T0 проекта как *time.Time.
func t0Of(p *model.Project) *time.Time {
	if p == nil || p.T0Date == nil {
		return nil
	}
	t := time.Time(*p.T0Date)
	return &t
}
