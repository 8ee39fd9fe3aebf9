package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultUploadDir is used when no directory is configured
const DefaultUploadDir = "./uploads"

// LocalStore keeps objects as files in one directory
type LocalStore struct {
	dir string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir when missing
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = DefaultUploadDir
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, internalError(err, "failed to create upload dir")
	}

	return &LocalStore{dir: dir}, nil
}

// Dir returns the storage directory
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, name string, data []byte, _ string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return internalError(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return internalError(err, "failed to write temp file")
	}

	if err := tmp.Close(); err != nil {
		return internalError(err, "failed to close temp file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return internalError(err, "failed to rename temp file")
	}

	return nil
}

func (s *LocalStore) Get(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if goerrors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, internalError(err, "failed to read file")
	}

	return data, nil
}

// Delete is a no-op for missing objects
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !goerrors.Is(err, fs.ErrNotExist) {
		return internalError(err, "failed to remove file")
	}

	return nil
}

func (s *LocalStore) path(name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}
