package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
)

const scanBatch = 256

// RedisStore implements ports.ModuleCache on a shared Redis instance.
// Keys are namespaced as bundl:<name>:<path>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis server at rawURL and verifies it with a ping.
func NewRedisStore(ctx context.Context, rawURL, name string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheConnectFailed.Error()), "url", rawURL)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheConnectFailed.Error()), "addr", opts.Addr)
	}

	return NewRedisStoreWithClient(client, name), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, prefix: "bundl:" + name + ":"}
}

// Get retrieves the cached load result for a key.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.LoadResult, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}
	return decode(key, data)
}

// Put stores the load result without expiry.
func (s *RedisStore) Put(ctx context.Context, key string, result domain.LoadResult) error {
	data, err := encode(key, result)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Clear deletes every key under this store's prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return zerr.Wrap(err, domain.ErrCacheClearFailed.Error())
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheClearFailed.Error())
	}

	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return zerr.Wrap(err, domain.ErrCacheClearFailed.Error())
		}
	}
	return nil
}

// Close releases the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
