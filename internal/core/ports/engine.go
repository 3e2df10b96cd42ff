package ports

import (
	"context"

	"go.trai.ch/bundl/internal/core/domain"
)

// BuildHooks connects the build engine to module resolution and loading.
type BuildHooks struct {
	Resolve func(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity
	Load    func(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error)
}

// BuildEngine bundles an entry point and its imports into a single output.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type BuildEngine interface {
	// Initialize prepares the engine. It may be called again after a failure.
	Initialize(ctx context.Context) error

	// Build runs one bundling pass and returns the text of the single output file.
	// The error text is the engine's own diagnostic message.
	Build(ctx context.Context, entryPoint string, hooks BuildHooks) (string, error)
}
