package domain

import "time"

// CacheEntry is the persisted form of a loaded module.
// Entries are written once per path and never invalidated.
type CacheEntry struct {
	Path     string     `json:"path"`
	Result   LoadResult `json:"result"`
	StoredAt time.Time  `json:"storedAt"`
}

// NewCacheEntry stamps a load result for storage.
func NewCacheEntry(path string, result LoadResult) CacheEntry {
	return CacheEntry{Path: path, Result: result, StoredAt: time.Now().UTC()}
}
