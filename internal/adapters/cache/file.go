package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileStore implements ports.ModuleCache with one JSON file per entry.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir/name.
func NewFileStore(dir, name string) *FileStore {
	return &FileStore{dir: filepath.Join(filepath.Clean(dir), name)}
}

// Dir returns the directory holding the entries.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) entryPath(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x.json", xxhash.Sum64String(key)))
}

// Get retrieves the cached load result for a key.
// Returns nil, nil if not found.
func (s *FileStore) Get(_ context.Context, key string) (*domain.LoadResult, error) {
	//nolint:gosec // Path is derived from a hash of the key
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}
	return decode(key, data)
}

// Put writes the entry atomically via a temporary file and rename.
func (s *FileStore) Put(_ context.Context, key string, result domain.LoadResult) error {
	data, err := encode(key, result)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", s.dir)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	if err := os.Rename(tmpName, s.entryPath(key)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Clear removes the entry directory.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheClearFailed.Error()), "dir", s.dir)
	}
	return nil
}
