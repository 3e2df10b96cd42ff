package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the progress recorder node.
	NodeID graft.ID = "adapter.progress"
)

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return New(), nil
		},
	})
}
