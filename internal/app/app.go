// Package app implements the application layer for bundl.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	compiler ports.Compiler
	sandbox  ports.Sandbox
	resolver ports.PathResolver
	loader   ports.ContentLoader
	cache    ports.ModuleCache
	logger   ports.Logger
	metrics  ports.Metrics
	workers  int
}

// Option configures an App.
type Option func(*App)

// WithMetrics records script executions.
func WithMetrics(m ports.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithWorkers bounds the number of concurrent fetches while warming the cache.
func WithWorkers(n int) Option {
	return func(a *App) {
		a.workers = n
	}
}

// New creates a new App instance.
func New(
	compiler ports.Compiler,
	sandbox ports.Sandbox,
	resolver ports.PathResolver,
	loader ports.ContentLoader,
	cache ports.ModuleCache,
	logger ports.Logger,
	opts ...Option,
) *App {
	a := &App{
		compiler: compiler,
		sandbox:  sandbox,
		resolver: resolver,
		loader:   loader,
		cache:    cache,
		logger:   logger,
		workers:  1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile bundles the request.
func (a *App) Compile(ctx context.Context, req domain.BuildRequest) domain.BuildOutput {
	return a.compiler.Compile(ctx, req)
}

// Execute evaluates code in the sandbox.
func (a *App) Execute(ctx context.Context, code string) domain.ExecutionResult {
	start := time.Now()
	value, err := a.sandbox.Execute(ctx, code)
	if a.metrics != nil {
		a.metrics.ObserveExecute(err == nil, time.Since(start))
	}

	if err != nil {
		a.logger.With("reason", err.Error()).Warn("script execution failed")
		return domain.ExecutionResult{Failure: err.Error()}
	}
	return domain.ExecutionResult{Value: value}
}

// Run compiles the request and executes the bundle when compilation succeeded.
func (a *App) Run(ctx context.Context, req domain.BuildRequest) domain.RunOutput {
	out := domain.RunOutput{Build: a.Compile(ctx, req)}
	if !out.Build.OK() {
		return out
	}

	result := a.Execute(ctx, out.Build.Bundle)
	out.Execution = &result
	return out
}

// WarmResult reports the outcome of prefetching one specifier.
type WarmResult struct {
	Specifier string
	Identity  domain.ResolvedIdentity
	Err       error
}

// Warm resolves each specifier as a bare import and loads it into the cache.
// Every specifier is attempted; failures are joined into the returned error.
func (a *App) Warm(ctx context.Context, specifiers []string) ([]WarmResult, error) {
	results := make([]WarmResult, len(specifiers))
	loader := a.loader.Bind(domain.BuildRequest{})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.workers))

	var mu sync.Mutex
	var errs []error

	for i, spec := range specifiers {
		id := a.resolver.Resolve(spec, domain.ResolutionContext{Kind: domain.ImportKindStatement})
		results[i] = WarmResult{Specifier: spec, Identity: id}

		g.Go(func() error {
			if _, err := loader.Load(ctx, id); err != nil {
				wrapped := zerr.With(err, "specifier", spec)
				results[i].Err = wrapped

				mu.Lock()
				errs = append(errs, wrapped)
				mu.Unlock()
				return nil
			}
			a.logger.With("path", id.Path).Debug("module cached")
			return nil
		})
	}

	_ = g.Wait()
	return results, errors.Join(errs...)
}

// ClearCache removes every cached module.
func (a *App) ClearCache(ctx context.Context) error {
	if err := a.cache.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info("module cache cleared")
	return nil
}

// Close releases the cache backend if it holds resources.
func (a *App) Close() error {
	if closer, ok := a.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
