package cache_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bundl/internal/adapters/cache"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

type backend struct {
	name string
	open func(t *testing.T) ports.ModuleCache
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T) ports.ModuleCache {
				t.Helper()
				store := cache.NewMemoryStore(domain.DefaultCacheName)
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
		{
			name: "file",
			open: func(t *testing.T) ports.ModuleCache {
				t.Helper()
				return cache.NewFileStore(t.TempDir(), domain.DefaultCacheName)
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) ports.ModuleCache {
				t.Helper()
				srv := miniredis.RunT(t)
				store, err := cache.NewRedisStore(context.Background(), "redis://"+srv.Addr(), domain.DefaultCacheName)
				require.NoError(t, err)
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("miss returns nil", func(t *testing.T) {
				store := b.open(t)
				got, err := store.Get(ctx, "https://unpkg.com/react")
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("put then get", func(t *testing.T) {
				store := b.open(t)
				want := domain.LoadResult{
					Loader:     domain.LoaderJSX,
					Contents:   "export default 1;",
					ResolveDir: "/react@18.2.0",
				}
				require.NoError(t, store.Put(ctx, "https://unpkg.com/react", want))

				got, err := store.Get(ctx, "https://unpkg.com/react")
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, want, *got)
			})

			t.Run("later put wins", func(t *testing.T) {
				store := b.open(t)
				require.NoError(t, store.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "a"}))
				require.NoError(t, store.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "b"}))

				got, err := store.Get(ctx, "k")
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "b", got.Contents)
			})

			t.Run("clear drops entries", func(t *testing.T) {
				store := b.open(t)
				for i := range 5 {
					key := fmt.Sprintf("https://unpkg.com/pkg-%d", i)
					require.NoError(t, store.Put(ctx, key, domain.LoadResult{Loader: domain.LoaderJSX, Contents: key}))
				}
				require.NoError(t, store.Clear(ctx))

				got, err := store.Get(ctx, "https://unpkg.com/pkg-0")
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("concurrent writers", func(t *testing.T) {
				store := b.open(t)
				var wg sync.WaitGroup
				for i := range 8 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						key := fmt.Sprintf("key-%d", i)
						assert.NoError(t, store.Put(ctx, key, domain.LoadResult{Loader: domain.LoaderJSX, Contents: key}))
					}()
				}
				wg.Wait()

				for i := range 8 {
					key := fmt.Sprintf("key-%d", i)
					got, err := store.Get(ctx, key)
					require.NoError(t, err)
					require.NotNil(t, got)
					assert.Equal(t, key, got.Contents)
				}
			})
		})
	}
}

func TestFileStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := cache.NewFileStore(dir, "fileCache")
	require.NoError(t, first.Put(ctx, "https://unpkg.com/a.js", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "a"}))

	second := cache.NewFileStore(dir, "fileCache")
	got, err := second.Get(ctx, "https://unpkg.com/a.js")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Contents)

	entries, err := os.ReadDir(filepath.Join(dir, "fileCache"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestFileStore_NamesAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a := cache.NewFileStore(dir, "a")
	b := cache.NewFileStore(dir, "b")
	require.NoError(t, a.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "a"}))

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := cache.NewFileStore(t.TempDir(), "fileCache")
	require.NoError(t, store.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "a"}))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), entries[0].Name()), []byte("{not json"), domain.FilePerm))

	got, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), domain.ErrCacheReadFailed.Error())
}

func TestFileStore_EntryForAnotherKeyIsMiss(t *testing.T) {
	ctx := context.Background()
	store := cache.NewFileStore(t.TempDir(), "fileCache")
	require.NoError(t, store.Put(ctx, "https://unpkg.com/a.js", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "a"}))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	aFile := filepath.Join(store.Dir(), entries[0].Name())

	require.NoError(t, store.Put(ctx, "https://unpkg.com/b.js", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "b"}))
	entries, err = os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var bData []byte
	for _, e := range entries {
		if p := filepath.Join(store.Dir(), e.Name()); p != aFile {
			bData, err = os.ReadFile(p)
			require.NoError(t, err)
		}
	}
	// Simulate two keys hashing to the same file.
	require.NoError(t, os.WriteFile(aFile, bData, domain.FilePerm))

	got, err := store.Get(ctx, "https://unpkg.com/a.js")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(ctx, "https://unpkg.com/b.js")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Contents)
}

func TestRedisStore_ClearKeepsOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mine := cache.NewRedisStoreWithClient(client, "mine")
	theirs := cache.NewRedisStoreWithClient(client, "theirs")

	require.NoError(t, mine.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "mine"}))
	require.NoError(t, theirs.Put(ctx, "k", domain.LoadResult{Loader: domain.LoaderJSX, Contents: "theirs"}))
	require.NoError(t, srv.Set("unrelated", "value"))

	require.NoError(t, mine.Clear(ctx))

	got, err := theirs.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "theirs", got.Contents)
	assert.True(t, srv.Exists("unrelated"))
	assert.False(t, srv.Exists("bundl:mine:k"))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := cache.NewRedisStore(context.Background(), "redis://"+addr, "fileCache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCacheConnectFailed.Error())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := cache.Open(ctx, domain.CacheConfig{Backend: domain.CacheBackendMemory, Name: "x"})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStore{}, store)

	store, err = cache.Open(ctx, domain.CacheConfig{Backend: domain.CacheBackendFile, Name: "x", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &cache.FileStore{}, store)

	_, err = cache.Open(ctx, domain.CacheConfig{Backend: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCacheBackendUnknown.Error())
}
