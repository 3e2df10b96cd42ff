package app

import (
	"errors"

	"go.trai.ch/bundl/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Config    *domain.Config
	Metrics   *metrics.Recorder
	Telemetry ports.Telemetry
}

// Close flushes progress recording and releases the cache.
func (c *Components) Close() error {
	var errs []error
	if c.Telemetry != nil {
		errs = append(errs, c.Telemetry.Close())
	}
	if c.App != nil {
		errs = append(errs, c.App.Close())
	}
	return errors.Join(errs...)
}
