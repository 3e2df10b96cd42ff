// Package compiler turns raw user code into a single bundle.
package compiler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler implements ports.Compiler on top of a BuildEngine.
type Compiler struct {
	engine   ports.BuildEngine
	resolver ports.PathResolver
	loader   ports.ContentLoader
	logger   ports.Logger
	tracer   ports.Tracer
	metrics  ports.Metrics

	mu          sync.Mutex
	initialized bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMetrics records the outcome and latency of every compilation.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// New creates a Compiler. The engine is initialized on the first Compile call.
func New(
	engine ports.BuildEngine,
	resolver ports.PathResolver,
	loader ports.ContentLoader,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Compiler {
	c := &Compiler{
		engine:   engine,
		resolver: resolver,
		loader:   loader,
		logger:   logger,
		tracer:   tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs exactly one build for the request. It never returns an error:
// every failure is folded into the output.
func (c *Compiler) Compile(ctx context.Context, req domain.BuildRequest) domain.BuildOutput {
	req = req.Normalize()
	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID)

	ctx, span := c.tracer.Start(ctx, "compile",
		ports.WithAttribute("request_id", requestID),
		ports.WithAttribute("entry_point", req.EntryPoint),
	)
	defer span.End()

	start := time.Now()
	out := c.compile(ctx, req, log, span)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveCompile(out.OK(), elapsed)
	}

	if out.OK() {
		log.Info(fmt.Sprintf("compiled %s: %d modules, %d bytes in %s", req.EntryPoint, len(out.Modules), len(out.Bundle), elapsed))
	} else {
		log.Warn(fmt.Sprintf("compilation of %s failed in %s", req.EntryPoint, elapsed))
	}
	return out
}

func (c *Compiler) compile(ctx context.Context, req domain.BuildRequest, log ports.Logger, span ports.Span) domain.BuildOutput {
	if err := c.ensureInitialized(ctx); err != nil {
		span.RecordError(err)
		log.Error(err)
		return domain.CompileFailed(err.Error())
	}

	graph := domain.NewImportGraph()
	bound := c.loader.Bind(req)
	hooks := ports.BuildHooks{
		Resolve: func(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity {
			id := c.resolver.Resolve(specifier, rc)
			graph.Record(rc.Importer, id)
			return id
		},
		Load: bound.Load,
	}

	bundle, err := c.engine.Build(ctx, req.EntryPoint, hooks)

	modules := graph.Order()
	paths := make([]string, 0, len(modules))
	for _, id := range modules {
		paths = append(paths, id.String())
	}
	c.tracer.EmitModules(ctx, paths)
	span.SetAttribute("modules", len(modules))

	if err != nil {
		span.RecordError(err)
		return domain.CompileFailed(err.Error())
	}

	span.SetAttribute("bundle_bytes", len(bundle))
	span.SetAttribute("bundle_digest", fmt.Sprintf("%016x", xxhash.Sum64String(bundle)))
	return domain.Compiled(bundle, modules)
}

// ensureInitialized initializes the engine once. A failed attempt is retried on the next call.
func (c *Compiler) ensureInitialized(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.engine.Initialize(ctx); err != nil {
		return zerr.Wrap(err, domain.ErrEngineInitFailed.Error())
	}
	c.initialized = true
	return nil
}
