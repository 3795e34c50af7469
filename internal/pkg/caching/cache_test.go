package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *CacheRedis {
	mr := miniredis.RunT(t)
	c, err := NewCacheRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), false)
	require.NoError(t, err)
	return c
}

func TestUseCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	calls := 0
	load := func() (uint64, error) {
		calls++
		return 42, nil
	}

	v, err := UseCache(ctx, c, "prize-cost", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	v, err = UseCache(ctx, c, "prize-cost", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
	assert.Equal(t, 1, calls)

	require.NoError(t, Invalidate(ctx, c, "prize-cost", "never-set"))
	_, err = UseCache(ctx, c, "prize-cost", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestUseCacheCallbackError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	boom := errors.New("boom")
	_, err := UseCache(ctx, c, "k", time.Minute, func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	var out []string
	assert.Error(t, c.Get(ctx, "k", &out))
}
