package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore хранит файлы в каталоге на диске.
type FSStore struct {
	Root string
}

// NewFSStore создаёт каталог root при необходимости.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create dir %s: %w", root, err)
	}
	return &FSStore{Root: root}, nil
}

func (s *FSStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("blob: invalid name %q", name)
	}
	return filepath.Join(s.Root, name), nil
}

func (s *FSStore) Put(_ context.Context, name, _ string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("blob: write %s: %w", name, err)
	}
	return nil
}

func (s *FSStore) Get(_ context.Context, name string) ([]byte, string, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, "", ErrNotFound
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("blob: read %s: %w", name, err)
	}
	return data, ContentTypeOf(name), nil
}

func (s *FSStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return ErrNotFound
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("blob: remove %s: %w", name, err)
	}
	return nil
}
