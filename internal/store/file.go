package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore implements Store with one JSON file per record under
// baseDir/<collection>/<key>.json.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+".json")
}

func (s *FileStore) Create(ctx context.Context, collection, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(s.baseDir, collection), 0o755); err != nil {
		return err
	}

	// O_EXCL makes creation fail when the record already exists
	f, err := os.OpenFile(s.path(collection, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

func (s *FileStore) Read(ctx context.Context, collection, key string, out any) error {
	data, err := os.ReadFile(s.path(collection, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, out)
}

func (s *FileStore) Update(ctx context.Context, collection, key string, record any) error {
	if _, err := os.Stat(s.path(collection, key)); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(collection, key), data, 0o644)
}

func (s *FileStore) Delete(ctx context.Context, collection, key string) error {
	err := os.Remove(s.path(collection, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
