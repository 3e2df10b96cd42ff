package ports

import "context"

// Sandbox evaluates scripts in an isolated runtime.
//
//go:generate go run go.uber.org/mock/mockgen -source=sandbox.go -destination=mocks/mock_sandbox.go -package=mocks
type Sandbox interface {
	// Execute runs the code and returns the value of its last expression.
	Execute(ctx context.Context, code string) (any, error)
}
