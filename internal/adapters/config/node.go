package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

// NodeID is the unique identifier for the configuration Graft node.
const NodeID graft.ID = "adapter.config"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

func init() {
	graft.Register(graft.Node[*domain.Config]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*domain.Config, error) {
			return Resolve(ctx, func(required bool) ports.ConfigLoader {
				return &FileConfigLoader{Required: required}
			})
		},
	})
}

// Resolve picks the configuration path and loads it.
// An explicit path from ctx wins over BUNDL_CONFIG; both make the file required.
// Without either, bundl.yaml in the working directory is read if present.
func Resolve(ctx context.Context, newLoader func(required bool) ports.ConfigLoader) (*domain.Config, error) {
	path := PathFromContext(ctx)
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	loader := newLoader(path != "")
	if path == "" {
		path = domain.ConfigFileName
	}
	return loader.Load(path)
}
