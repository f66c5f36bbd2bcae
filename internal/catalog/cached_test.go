package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/common/metrics"
	"event-package-workers/internal/recommend"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	products []recommend.Product
	err      error
	calls    int
}

func (c *countingProvider) Snapshot(context.Context, []string) ([]recommend.Product, error) {
	c.calls++
	return c.products, c.err
}

func sampleProducts() []recommend.Product {
	price := 120.0
	return []recommend.Product{{ID: "v1", Category: "venue", Price: &price, Seq: 0}}
}

func newMiniredisCache(t *testing.T, next Provider) (*CachedProvider, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedProvider(next, rdb, "postgres", time.Minute, logger.NewTestLogger(t)), mr
}

func TestCachedProvider_CacheKey(t *testing.T) {
	c := NewCachedProvider(nil, nil, "postgres", time.Minute, logger.NewNoOpLogger())

	assert.Equal(t, "catalog:snapshot:postgres:catering,venue", c.CacheKey([]string{"venue", "catering"}))
	assert.Equal(t, c.CacheKey([]string{"catering", "venue", "venue"}), c.CacheKey([]string{"venue", "catering"}))
}

func TestCachedProvider_ReadThrough(t *testing.T) {
	next := &countingProvider{products: sampleProducts()}
	cache, mr := newMiniredisCache(t, next)
	ctx := context.Background()
	hits := testutil.ToFloat64(metrics.CatalogCacheRequests.WithLabelValues("hit"))

	first, err := cache.Snapshot(ctx, []string{"venue"})
	require.NoError(t, err)
	second, err := cache.Snapshot(ctx, []string{"venue"})
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CatalogCacheRequests.WithLabelValues("hit")))

	key := cache.CacheKey([]string{"venue"})
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Snapshot(ctx, []string{"venue"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_SourceErrorNotCached(t *testing.T) {
	next := &countingProvider{err: assert.AnError}
	cache, mr := newMiniredisCache(t, next)

	_, err := cache.Snapshot(context.Background(), []string{"venue"})
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, mr.Exists(cache.CacheKey([]string{"venue"})))
}

func TestCachedProvider_CorruptEntry(t *testing.T) {
	next := &countingProvider{products: sampleProducts()}
	cache, mr := newMiniredisCache(t, next)
	key := cache.CacheKey([]string{"venue"})
	require.NoError(t, mr.Set(key, "{not json"))

	products, err := cache.Snapshot(context.Background(), []string{"venue"})
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), products)
	assert.Equal(t, 1, next.calls)

	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"v1","category":"venue","price":120,"seq":0}]`, stored)
}

func TestCachedProvider_RedisFailuresFallThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	next := &countingProvider{products: sampleProducts()}
	cache := NewCachedProvider(next, rdb, "elasticsearch", 30*time.Second, logger.NewTestLogger(t))
	key := cache.CacheKey([]string{"venue"})

	data, err := json.Marshal(sampleProducts())
	require.NoError(t, err)

	mock.ExpectGet(key).SetErr(assert.AnError)
	mock.ExpectSet(key, string(data), 30*time.Second).SetErr(assert.AnError)

	products, err := cache.Snapshot(context.Background(), []string{"venue"})
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), products)
	assert.Equal(t, 1, next.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
