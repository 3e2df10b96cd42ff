// Package loader produces module contents for the build engine.
package loader

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Rule is one entry of the load table. The first rule whose Match returns
// true loads the module.
type Rule struct {
	Name  string
	Match func(id domain.ResolvedIdentity) bool
	Load  func(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error)
}

// Loader implements ports.ContentLoader. Network loads are served from the
// cache when possible and deduplicated while in flight.
type Loader struct {
	fetcher   ports.Fetcher
	cache     ports.ModuleCache
	logger    ports.Logger
	metrics   ports.Metrics
	telemetry ports.Telemetry

	group singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithMetrics records the source of every load.
func WithMetrics(m ports.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithTelemetry records a progress vertex for every network load.
func WithTelemetry(t ports.Telemetry) Option {
	return func(l *Loader) {
		l.telemetry = t
	}
}

// New creates a Loader.
func New(fetcher ports.Fetcher, cache ports.ModuleCache, logger ports.Logger, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bind returns a ModuleLoader serving req.RawCode as the entry module.
func (l *Loader) Bind(req domain.BuildRequest) ports.ModuleLoader {
	req = req.Normalize()
	return &Bound{
		rules: []Rule{
			{
				Name:  "entry",
				Match: domain.ResolvedIdentity.IsEntry,
				Load: func(_ context.Context, _ domain.ResolvedIdentity) (*domain.LoadResult, error) {
					l.observe(domain.LoadSourceVirtual)
					return &domain.LoadResult{Loader: req.EntryLoader(), Contents: req.RawCode}, nil
				},
			},
			{
				Name:  "stylesheet",
				Match: isStylesheet,
				Load: func(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error) {
					return l.fetchCached(ctx, id, stylesheetResult)
				},
			},
			{
				Name:  "generic",
				Match: func(domain.ResolvedIdentity) bool { return true },
				Load: func(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error) {
					return l.fetchCached(ctx, id, scriptResult)
				},
			},
		},
	}
}

// Bound is a ModuleLoader bound to one build request.
type Bound struct {
	rules []Rule
}

// Rules returns the load table in precedence order.
func (b *Bound) Rules() []Rule {
	out := make([]Rule, len(b.rules))
	copy(out, b.rules)
	return out
}

// Load returns the contents of the module.
func (b *Bound) Load(ctx context.Context, id domain.ResolvedIdentity) (*domain.LoadResult, error) {
	for _, rule := range b.rules {
		if rule.Match(id) {
			return rule.Load(ctx, id)
		}
	}
	return nil, zerr.With(domain.ErrModuleNotFound, "path", id.String())
}

type flight struct {
	result *domain.LoadResult
	cached bool
}

type transform func(fetched *domain.FetchedModule) domain.LoadResult

func isStylesheet(id domain.ResolvedIdentity) bool {
	return id.Ext() == ".css"
}

func scriptResult(fetched *domain.FetchedModule) domain.LoadResult {
	return domain.LoadResult{
		Loader:     domain.LoaderJSX,
		Contents:   fetched.Contents,
		ResolveDir: fetched.Dir(),
	}
}

func stylesheetResult(fetched *domain.FetchedModule) domain.LoadResult {
	return domain.LoadResult{
		Loader:     domain.LoaderJSX,
		Contents:   StyleModule(fetched.Contents),
		ResolveDir: fetched.Dir(),
	}
}

var cssEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\r", "",
	"\n", "",
	`"`, `\"`,
	`'`, `\'`,
)

// StyleModule wraps CSS text in a script that injects it into the document head.
func StyleModule(css string) string {
	return fmt.Sprintf(`const style = document.createElement('style');
style.textContent = '%s';
document.head.appendChild(style);
`, cssEscaper.Replace(css))
}

// fetchCached serves id from the cache or fetches it once for all concurrent callers.
func (l *Loader) fetchCached(ctx context.Context, id domain.ResolvedIdentity, fn transform) (*domain.LoadResult, error) {
	log := l.logger.With("module", id.Path)

	ctx, vertex := l.record(ctx, id.Path)

	if hit := l.lookup(ctx, log, id.Path); hit != nil {
		l.observe(domain.LoadSourceCache)
		log.Debug("cache hit")
		if vertex != nil {
			vertex.Cached()
			vertex.Complete(nil)
		}
		return hit, nil
	}

	v, err, shared := l.group.Do(id.Path, func() (any, error) {
		// A flight that finished just before this one started has already stored the result.
		if hit := l.lookup(ctx, log, id.Path); hit != nil {
			return flight{result: hit, cached: true}, nil
		}

		fetched, err := l.fetcher.Fetch(ctx, id.Path)
		if err != nil {
			return nil, err
		}

		if vertex != nil {
			vertex.Log(domain.LogLevelInfo, "fetched "+fetched.FinalURL)
		}

		res := fn(fetched)
		if err := l.cache.Put(ctx, id.Path, res); err != nil {
			log.Warn(fmt.Sprintf("cache write failed: %v", err))
		}
		return flight{result: &res}, nil
	})
	if vertex != nil {
		vertex.Complete(err)
	}
	if err != nil {
		return nil, err
	}

	f := v.(flight)
	switch {
	case f.cached:
		l.observe(domain.LoadSourceCache)
		log.Debug("cache hit")
	case shared:
		l.observe(domain.LoadSourceShared)
		log.Debug("joined in-flight fetch")
	default:
		l.observe(domain.LoadSourceNetwork)
		log.Debug("fetched from registry")
	}

	out := *f.result
	return &out, nil
}

// lookup returns the cached result for key. Store errors are treated as misses.
func (l *Loader) lookup(ctx context.Context, log ports.Logger, key string) *domain.LoadResult {
	res, err := l.cache.Get(ctx, key)
	if err != nil {
		log.Warn(fmt.Sprintf("cache read failed: %v", err))
		return nil
	}
	return res
}

func (l *Loader) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	if l.telemetry == nil {
		return ctx, nil
	}
	return l.telemetry.Record(ctx, name)
}

func (l *Loader) observe(source domain.LoadSource) {
	if l.metrics != nil {
		l.metrics.ObserveLoad(source)
	}
}
