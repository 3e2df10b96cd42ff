package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/config" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

// NodeID is the unique identifier for the build engine Graft node.
const NodeID graft.ID = "adapter.esbuild"

func init() {
	graft.Register(graft.Node[ports.BuildEngine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.BuildEngine, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Build), nil
		},
	})
}
