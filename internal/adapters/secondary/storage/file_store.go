package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// FileStore keeps one JSON file per key under a profile directory. A key of
// the form "prefix:name" is stored at <dir>/<prefix>/<name>.json.
type FileStore struct {
	dir string
}

var _ ports.InteractionStore = (*FileStore)(nil)

// NewFileStore creates the profile directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty profile directory", apperrors.ErrStorageUnavailable)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the profile directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	prefix, name, ok := strings.Cut(key, ":")
	if !ok {
		return filepath.Join(s.dir, url.PathEscape(key)+".json")
	}
	return filepath.Join(s.dir, url.PathEscape(prefix), url.PathEscape(name)+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrStorageUnavailable, key, err)
	}
	return data, nil
}

// Put replaces the value atomically: readers see the old or the new file,
// never a partial write.
func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	finalPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o700); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(finalPath), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", apperrors.ErrStorageUnavailable, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrStorageUnavailable, key, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", apperrors.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("%w: rename %s: %v", apperrors.ErrStorageUnavailable, key, err)
	}

	success = true
	return nil
}
