package caching

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

type ReadOnlyCache interface {
	Get(ctx context.Context, key string, target any) error
}

type Cache interface {
	ReadOnlyCache
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UseCacheWithRO reads key from the read-only cache and falls back to
// callback on a miss, writing the result through cash.
func UseCacheWithRO[T any](ctx context.Context, roCash ReadOnlyCache, cash Cache, key string, ttl time.Duration, callback func() (T, error)) (T, error) {
	var v T
	err := roCash.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// a broken cache must not take queries down with it
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	v, err = callback()
	if err != nil {
		return v, err
	}

	if err := cash.Set(ctx, key, v, ttl); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func UseCache[T any](ctx context.Context, cash Cache, key string, ttl time.Duration, callback func() (T, error)) (T, error) {
	return UseCacheWithRO(ctx, cash, cash, key, ttl, callback)
}

// Invalidate drops every key, reporting the first failure.
func Invalidate(ctx context.Context, cash Cache, keys ...string) error {
	var first error
	for _, key := range keys {
		if err := cash.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrCacheMiss) && first == nil {
			first = err
		}
	}
	return first
}

type CacheRedis struct {
	instance *cache.Cache
}

func (c *CacheRedis) Get(ctx context.Context, key string, target any) error {
	return c.instance.Get(ctx, key, target)
}

func (c *CacheRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.instance.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}

func (c *CacheRedis) Delete(ctx context.Context, key string) error {
	return c.instance.Delete(ctx, key)
}

func NewCacheRedis(client redis.UniversalClient, withLocalCache bool) (*CacheRedis, error) {
	if client == nil {
		return nil, errors.New("caching: nil redis client")
	}
	var localCache cache.LocalCache
	if withLocalCache {
		localCache = cache.NewTinyLFU(10000, time.Minute)
	}
	return &CacheRedis{cache.New(&cache.Options{
		Redis:      client,
		LocalCache: localCache,
	})}, nil
}
