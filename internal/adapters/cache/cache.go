// Package cache implements the module cache backends.
package cache

import (
	"github.com/goccy/go-json"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
)

// encode serializes a load result as a stamped cache entry.
func encode(key string, result domain.LoadResult) ([]byte, error) {
	data, err := json.Marshal(domain.NewCacheEntry(key, result))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return data, nil
}

// decode reverses encode. Empty input and entries written for a different key are misses.
func decode(key string, data []byte) (*domain.LoadResult, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}

	// Filenames are hashed keys; an entry stored for another key is a collision.
	if entry.Path != key {
		return nil, nil
	}

	result := entry.Result
	return &result, nil
}
