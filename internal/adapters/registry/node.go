package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/config"  //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/adapters/logger"  //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/adapters/metrics" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

// NodeID is the unique identifier for the registry fetcher Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
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

			return NewFetcher(cfg.Fetch, WithLogger(log), WithMetrics(recorder)), nil
		},
	})
}
