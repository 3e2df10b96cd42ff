package compiler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/internal/adapters/esbuild"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/bundl/internal/engine/loader"
	"go.trai.ch/bundl/internal/engine/resolver"
)

// NodeID is the unique identifier for the compiler Graft node.
const NodeID graft.ID = "engine.compiler"

func init() {
	graft.Register(graft.Node[ports.Compiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			esbuild.NodeID,
			resolver.NodeID,
			loader.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (ports.Compiler, error) {
			engine, err := graft.Dep[ports.BuildEngine](ctx)
			if err != nil {
				return nil, err
			}

			pathResolver, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}

			contentLoader, err := graft.Dep[ports.ContentLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*metrics.Recorder](ctx)
			if err != nil {
				return nil, err
			}

			return New(engine, pathResolver, contentLoader, log, tracer, WithMetrics(recorder)), nil
		},
	})
}
