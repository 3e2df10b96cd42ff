package loader_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports/mocks"
	"go.trai.ch/bundl/internal/engine/loader"
)

const reactURL = "https://unpkg.com/react"

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().With(gomock.Any(), gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func registryID(p string) domain.ResolvedIdentity {
	return domain.ResolvedIdentity{Namespace: domain.NamespaceRegistry, Path: p}
}

// mapCache is a goroutine-safe ModuleCache used where call counts do not matter.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.LoadResult
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]domain.LoadResult)}
}

func (c *mapCache) Get(_ context.Context, key string) (*domain.LoadResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (c *mapCache) Put(_ context.Context, key string, result domain.LoadResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

func (c *mapCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.LoadResult)
	return nil
}

func TestLoad_Entry(t *testing.T) {
	tests := []struct {
		entryPoint string
		want       domain.LoaderKind
	}{
		{entryPoint: "index.ts", want: domain.LoaderTSX},
		{entryPoint: "app.tsx", want: domain.LoaderTSX},
		{entryPoint: "index.js", want: domain.LoaderJSX},
		{entryPoint: "index.jsx", want: domain.LoaderJSX},
		{entryPoint: "", want: domain.LoaderJSX},
	}

	for _, tt := range tests {
		t.Run(tt.entryPoint, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// Neither fetcher nor cache may be touched for the entry module.
			fetcher := mocks.NewMockFetcher(ctrl)
			cache := mocks.NewMockModuleCache(ctrl)

			l := loader.New(fetcher, cache, quietLogger(ctrl))
			req := domain.BuildRequest{RawCode: "const a = 1;", EntryPoint: tt.entryPoint}
			entry := domain.ResolvedIdentity{Namespace: domain.NamespaceVirtual, Path: req.Normalize().EntryPoint}

			res, err := l.Bind(req).Load(context.Background(), entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Loader)
			assert.Equal(t, "const a = 1;", res.Contents)
			assert.Empty(t, res.ResolveDir)
		})
	}
}

func TestLoad_FetchesAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := mocks.NewMockModuleCache(ctrl)

	want := domain.LoadResult{
		Loader:     domain.LoaderJSX,
		Contents:   "export default 1;",
		ResolveDir: "/react@18.2.0",
	}

	cache.EXPECT().Get(gomock.Any(), reactURL).Return(nil, nil).Times(2)
	fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(&domain.FetchedModule{
		Contents: "export default 1;",
		FinalURL: "https://unpkg.com/react@18.2.0/index.js",
	}, nil)
	cache.EXPECT().Put(gomock.Any(), reactURL, want).Return(nil)

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	res, err := l.Bind(domain.BuildRequest{}).Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	assert.Equal(t, want, *res)
}

func TestLoad_CacheHitSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := mocks.NewMockModuleCache(ctrl)

	cached := &domain.LoadResult{Loader: domain.LoaderJSX, Contents: "cached", ResolveDir: "/react@18.2.0"}
	cache.EXPECT().Get(gomock.Any(), reactURL).Return(cached, nil)

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	res, err := l.Bind(domain.BuildRequest{}).Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	assert.Equal(t, cached, res)
}

func TestLoad_CacheReadErrorIsMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := mocks.NewMockModuleCache(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().With(gomock.Any(), gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).MinTimes(1)

	cache.EXPECT().Get(gomock.Any(), reactURL).Return(nil, errors.New("disk on fire")).Times(2)
	fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(&domain.FetchedModule{
		Contents: "fresh",
		FinalURL: "https://unpkg.com/react@18.2.0/index.js",
	}, nil)
	cache.EXPECT().Put(gomock.Any(), reactURL, gomock.Any()).Return(nil)

	l := loader.New(fetcher, cache, log)
	res, err := l.Bind(domain.BuildRequest{}).Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Contents)
}

func TestLoad_CacheWriteErrorIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := mocks.NewMockModuleCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), reactURL).Return(nil, nil).AnyTimes()
	fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(&domain.FetchedModule{
		Contents: "fresh",
		FinalURL: "https://unpkg.com/react@18.2.0/index.js",
	}, nil)
	cache.EXPECT().Put(gomock.Any(), reactURL, gomock.Any()).Return(errors.New("read-only"))

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	res, err := l.Bind(domain.BuildRequest{}).Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Contents)
}

func TestLoad_FailedFetchIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := newMapCache()

	gomock.InOrder(
		fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(nil, domain.ErrModuleNotFound),
		fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(&domain.FetchedModule{
			Contents: "ok",
			FinalURL: "https://unpkg.com/react@18.2.0/index.js",
		}, nil),
	)

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	bound := l.Bind(domain.BuildRequest{})

	_, err := bound.Load(context.Background(), registryID(reactURL))
	require.Error(t, err)
	assert.Empty(t, cache.entries)

	res, err := bound.Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Contents)
	assert.Len(t, cache.entries, 1)
}

func TestLoad_Stylesheet(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := newMapCache()

	cssURL := "https://unpkg.com/bulma/css/bulma.css"
	fetcher.EXPECT().Fetch(gomock.Any(), cssURL).Return(&domain.FetchedModule{
		Contents: "a::after{content:\"\\201C\"}\r\nb{font:'x'}",
		FinalURL: "https://unpkg.com/bulma@0.9.4/css/bulma.css",
	}, nil)

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	res, err := l.Bind(domain.BuildRequest{}).Load(context.Background(), registryID(cssURL))
	require.NoError(t, err)

	assert.Equal(t, domain.LoaderJSX, res.Loader)
	assert.Equal(t, "/bulma@0.9.4/css", res.ResolveDir)
	assert.Contains(t, res.Contents, "document.createElement('style')")
	assert.Contains(t, res.Contents, `a::after{content:\"\\201C\"}b{font:\'x\'}`)
	assert.Contains(t, res.Contents, "document.head.appendChild(style)")
	assert.NotContains(t, res.Contents, "\r")

	stored, err := cache.Get(context.Background(), cssURL)
	require.NoError(t, err)
	assert.Equal(t, res, stored)
}

func TestStyleModule(t *testing.T) {
	assert.Equal(t,
		"const style = document.createElement('style');\nstyle.textContent = 'body{color:red}';\ndocument.head.appendChild(style);\n",
		loader.StyleModule("body{\ncolor:red}"),
	)
}

func TestLoad_ConcurrentLoadsShareOneFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	cache := newMapCache()
	release := make(chan struct{})

	fetcher.EXPECT().Fetch(gomock.Any(), reactURL).DoAndReturn(
		func(context.Context, string) (*domain.FetchedModule, error) {
			<-release
			return &domain.FetchedModule{Contents: "shared", FinalURL: "https://unpkg.com/react@18.2.0/index.js"}, nil
		},
	).Times(1)

	l := loader.New(fetcher, cache, quietLogger(ctrl))
	bound := l.Bind(domain.BuildRequest{})

	const n = 16
	var wg sync.WaitGroup
	results := make([]*domain.LoadResult, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = bound.Load(context.Background(), registryID(reactURL))
		}()
	}
	close(release)
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i].Contents)
	}
	assert.Len(t, cache.entries, 1)
}

func TestLoad_ObservesSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	cache := newMapCache()

	fetcher.EXPECT().Fetch(gomock.Any(), reactURL).Return(&domain.FetchedModule{
		Contents: "x",
		FinalURL: "https://unpkg.com/react@18.2.0/index.js",
	}, nil)

	telemetry.EXPECT().Record(gomock.Any(), reactURL).Return(context.Background(), vertex).Times(2)
	vertex.EXPECT().Complete(nil).Times(2)
	vertex.EXPECT().Cached().Times(1)
	vertex.EXPECT().Log(domain.LogLevelInfo, "fetched https://unpkg.com/react@18.2.0/index.js").Times(1)

	gomock.InOrder(
		metrics.EXPECT().ObserveLoad(domain.LoadSourceVirtual),
		metrics.EXPECT().ObserveLoad(domain.LoadSourceNetwork),
		metrics.EXPECT().ObserveLoad(domain.LoadSourceCache),
	)

	l := loader.New(fetcher, cache, quietLogger(ctrl), loader.WithMetrics(metrics), loader.WithTelemetry(telemetry))
	bound := l.Bind(domain.BuildRequest{RawCode: "1"})

	_, err := bound.Load(context.Background(), domain.ResolvedIdentity{Namespace: domain.NamespaceVirtual, Path: "index.js"})
	require.NoError(t, err)
	_, err = bound.Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
	_, err = bound.Load(context.Background(), registryID(reactURL))
	require.NoError(t, err)
}

func TestBind_RulePrecedence(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := loader.New(mocks.NewMockFetcher(ctrl), newMapCache(), quietLogger(ctrl))

	bound, ok := l.Bind(domain.BuildRequest{}).(*loader.Bound)
	require.True(t, ok)

	names := make([]string, 0, 3)
	for _, r := range bound.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"entry", "stylesheet", "generic"}, names)

	// A virtual module whose name ends in .css is still the entry.
	rules := bound.Rules()
	assert.True(t, rules[0].Match(domain.ResolvedIdentity{Namespace: domain.NamespaceVirtual, Path: "x.css"}))
	assert.True(t, rules[1].Match(registryID("https://unpkg.com/a.css?v=1")))
	assert.False(t, rules[1].Match(registryID("https://unpkg.com/a.cssx")))
}
