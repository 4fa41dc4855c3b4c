// Package cachemanager caches parsed code models between runs of a long
// lived command such as `codenav watch`.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by key with per-entry TTLs.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
