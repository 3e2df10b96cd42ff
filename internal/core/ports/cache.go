// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/bundl/internal/core/domain"
)

// ModuleCache stores loaded modules keyed by their resolved path.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ModuleCache interface {
	// Get retrieves the cached load result for a key.
	// Returns nil, nil if not found.
	Get(ctx context.Context, key string) (*domain.LoadResult, error)

	// Put stores a load result under the key.
	Put(ctx context.Context, key string, result domain.LoadResult) error

	// Clear removes every entry of this cache instance.
	Clear(ctx context.Context) error
}
