package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/config" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the module cache Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.ModuleCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ModuleCache, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			store, err := Open(ctx, cfg.Cache)
			if err != nil {
				return nil, err
			}
			log.With("backend", string(cfg.Cache.Backend)).With("name", cfg.Cache.Name).Debug("module cache ready")
			return store, nil
		},
	})
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg domain.CacheConfig) (ports.ModuleCache, error) {
	switch cfg.Backend {
	case domain.CacheBackendMemory, "":
		return NewMemoryStore(cfg.Name), nil
	case domain.CacheBackendFile:
		return NewFileStore(cfg.Dir, cfg.Name), nil
	case domain.CacheBackendRedis:
		store, err := NewRedisStore(ctx, cfg.RedisURL, cfg.Name)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, zerr.With(domain.ErrCacheBackendUnknown, "backend", string(cfg.Backend))
	}
}
