package cache

import (
	"context"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
)

const memoryGCInterval = 10 * time.Minute

// MemoryStore implements ports.ModuleCache on top of an in-process key/value store.
// Entries live as long as the process.
type MemoryStore struct {
	prefix  string
	storage *memory.Storage
}

// NewMemoryStore creates a memory store scoped by name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		prefix:  name + ":",
		storage: memory.New(memory.Config{GCInterval: memoryGCInterval}),
	}
}

// Get retrieves the cached load result for a key.
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.LoadResult, error) {
	data, err := s.storage.Get(s.prefix + key)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}
	return decode(key, data)
}

// Put stores the load result without expiry.
func (s *MemoryStore) Put(_ context.Context, key string, result domain.LoadResult) error {
	data, err := encode(key, result)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.prefix+key, data, 0); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Clear drops every entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	if err := s.storage.Reset(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheClearFailed.Error())
	}
	return nil
}

// Close stops the garbage collector of the underlying storage.
func (s *MemoryStore) Close() error {
	return s.storage.Close()
}
