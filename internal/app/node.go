package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/cache"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/adapters/sandbox"            //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/bundl/internal/engine/compiler"
	"go.trai.ch/bundl/internal/engine/loader"
	"go.trai.ch/bundl/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			compiler.NodeID,
			sandbox.NodeID,
			resolver.NodeID,
			loader.NodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
			config.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			metrics.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	comp, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}

	sb, err := graft.Dep[ports.Sandbox](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[ports.PathResolver](ctx)
	if err != nil {
		return nil, err
	}

	ld, err := graft.Dep[ports.ContentLoader](ctx)
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

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return New(comp, sb, res, ld, store, log,
		WithMetrics(recorder),
		WithWorkers(cfg.Fetch.Workers()),
	), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
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

	return &Components{
		App:       a,
		Logger:    log,
		Config:    cfg,
		Metrics:   recorder,
		Telemetry: telemetry,
	}, nil
}
