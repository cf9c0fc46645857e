package blob

import (
	"ProjectDesk/internal/repo"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DBStore хранит файлы в таблице blobs через BlobRepository.
type DBStore struct {
	repo repo.BlobRepository
}

func NewDBStore(r repo.BlobRepository) *DBStore {
	return &DBStore{repo: r}
}

func (s *DBStore) Put(ctx context.Context, name, contentType string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("blob: invalid name %q", name)
	}
	if contentType == "" {
		contentType = ContentTypeOf(name)
	}
	created, err := s.repo.CreateIfAbsent(ctx, name, data, contentType)
	if err != nil {
		return fmt.Errorf("blob: put %s: %w", name, err)
	}
	if !created {
		return fmt.Errorf("blob: %s already exists", name)
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	b, err := s.repo.Get(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("blob: get %s: %w", name, err)
	}
	return b.Data, b.ContentType, nil
}

func (s *DBStore) Delete(ctx context.Context, name string) error {
	deleted, err := s.repo.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("blob: delete %s: %w", name, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
