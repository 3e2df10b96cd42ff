package ports

import (
	"context"

	"go.trai.ch/bundl/internal/core/domain"
)

// ContentLoader produces module loaders bound to a single build request.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type ContentLoader interface {
	// Bind returns a loader that serves the request's raw code as the entry module.
	Bind(req domain.BuildRequest) ModuleLoader
}

// ModuleLoader loads the contents of resolved modules.
// Implementations must be safe for concurrent use.
type ModuleLoader interface {
	Load(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error)
}
