package cachemanager

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/tracing"
)

// ReadThroughCache loads values through fn on a miss and stores them.
// Hits and misses are recorded as events on the span in the caller's
// context, keyed by the file version.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

// NewReadThroughCache wraps cache with the loader fn. When shouldSkipCache
// is set every Get calls fn directly.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key or loads it from input. Load errors
// are returned and nothing is cached.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}
	if value, ok := r.cache.Get(ctx, key); ok {
		r.hit(ctx, key)
		return value, nil
	}
	return r.load(ctx, key, input, ttl)
}

// GetWithRefresh is Get that also extends the ttl of a hit.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}
	if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
		r.hit(ctx, key)
		return value, nil
	}
	return r.load(ctx, key, input, ttl)
}

func (r *ReadThroughCache[K, V, I]) hit(ctx context.Context, key K) {
	tracing.AddEvent(ctx, tracing.EventCacheHit, attribute.String(tracing.AttrCacheKey, string(key)))
}

func (r *ReadThroughCache[K, V, I]) load(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	tracing.AddEvent(ctx, tracing.EventCacheMiss, attribute.String(tracing.AttrCacheKey, string(key)))
	value, err := r.fn(ctx, input)
	if err != nil {
		log.Debug(log.CatCache, "load failed", "key", string(key), "error", err)
		return value, err
	}
	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}
