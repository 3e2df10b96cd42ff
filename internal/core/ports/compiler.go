package ports

import (
	"context"

	"go.trai.ch/bundl/internal/core/domain"
)

// Compiler turns raw user code into a bundle.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile never returns an error; failures are carried by the output.
	Compile(ctx context.Context, req domain.BuildRequest) domain.BuildOutput
}
