package ports

import (
	"context"

	"go.trai.ch/bundl/internal/core/domain"
)

// Fetcher retrieves module source text from the package registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch performs a GET for the URL, following redirects.
	// The returned module carries the URL of the final response.
	Fetch(ctx context.Context, url string) (*domain.FetchedModule, error)
}
