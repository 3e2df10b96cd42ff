package ports

import (
	"time"

	"go.trai.ch/bundl/internal/core/domain"
)

// Metrics records operational counters.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	ObserveCompile(ok bool, elapsed time.Duration)
	ObserveLoad(source domain.LoadSource)
	ObserveFetch(status string, elapsed time.Duration)
	ObserveExecute(ok bool, elapsed time.Duration)
}
