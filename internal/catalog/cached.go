package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/common/metrics"
	"event-package-workers/internal/recommend"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "catalog:snapshot:"

// CachedProvider is a read-through Redis cache in front of another
// provider. Redis failures never fail a snapshot; they are logged and the
// source is read directly.
type CachedProvider struct {
	next   Provider
	rdb    redis.Cmdable
	source string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProvider(next Provider, rdb redis.Cmdable, source string, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		rdb:    rdb,
		source: source,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-cache"}),
	}
}

// CacheKey is independent of category order and duplicates.
func (c *CachedProvider) CacheKey(categories []string) string {
	return cacheKeyPrefix + c.source + ":" + strings.Join(sortedCategories(categories), ",")
}

func (c *CachedProvider) Snapshot(ctx context.Context, categories []string) ([]recommend.Product, error) {
	key := c.CacheKey(categories)

	if products, ok := c.lookup(ctx, key); ok {
		return products, nil
	}

	products, err := c.next.Snapshot(ctx, categories)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, products)
	return products, nil
}

func (c *CachedProvider) lookup(ctx context.Context, key string) ([]recommend.Product, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("catalog cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}

	var products []recommend.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("discarding corrupt catalog cache entry", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}

	metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
	return products, true
}

func (c *CachedProvider) store(ctx context.Context, key string, products []recommend.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("failed to encode catalog snapshot", map[string]interface{}{"error": err})
		return
	}
	if err := c.rdb.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
