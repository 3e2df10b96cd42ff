package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/cache"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/metrics"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/registry"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/core/ports"
)

// NodeID is the unique identifier for the loader Graft node.
const NodeID graft.ID = "engine.loader"

func init() {
	graft.Register(graft.Node[ports.ContentLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (ports.ContentLoader, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*metrics.Recorder](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(fetcher, store, log, WithMetrics(recorder), WithTelemetry(telemetry)), nil
		},
	})
}
