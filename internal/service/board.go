package service

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"

	"go.uber.org/zap"
)

// BoardService — колонки канбан-доски.
type BoardService struct {
	projects repo.ProjectRepository
	board    repo.BoardRepository
	blobs    blob.Store
	logger   *zap.SugaredLogger
}

func NewBoardService(projects repo.ProjectRepository, board repo.BoardRepository, blobs blob.Store, logger *zap.SugaredLogger) *BoardService {
	return &BoardService{projects: projects, board: board, blobs: blobs, logger: logger}
}

type ColumnInput struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type ReorderColumnsInput struct {
	ColumnIDs []string `json:"columnIds" validate:"required,dive,required"`
}

// List — колонки по порядку вместе с задачами.
func (s *BoardService) List(ctx context.Context, projectID string) ([]model.BoardColumn, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.board.List(ctx, projectID)
}

func (s *BoardService) Create(ctx context.Context, projectID string, in ColumnInput) (*model.BoardColumn, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.board.Create(ctx, projectID, name)
}

func (s *BoardService) Rename(ctx context.Context, projectID, id string, in ColumnInput) (*model.BoardColumn, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	c, err := s.board.Rename(ctx, projectID, id, name)
	if err != nil {
		return nil, notFound(err, msgColumnNotFound)
	}
	return c, nil
}

func (s *BoardService) Reorder(ctx context.Context, projectID string, in ReorderColumnsInput) ([]model.BoardColumn, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.board.Reorder(ctx, projectID, in.ColumnIDs)
}

// Delete удаляет колонку вместе с задачами и их файлами.
func (s *BoardService) Delete(ctx context.Context, projectID, id string) error {
	paths, err := s.board.Delete(ctx, projectID, id)
	if err != nil {
		return notFound(err, msgColumnNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, paths)
	return nil
}
