package sandbox

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/config" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

// NodeID is the unique identifier for the sandbox Graft node.
const NodeID graft.ID = "adapter.sandbox"

func init() {
	graft.Register(graft.Node[ports.Sandbox]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Sandbox, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Sandbox.Timeout, log), nil
		},
	})
}
