package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value cache with per-entry TTL.
//
// A positive ttl expires the entry after that duration, zero uses the
// cache default, and a negative ttl never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LoadFunc computes a missing value and the TTL to cache it with.
type LoadFunc[V any] func(ctx context.Context) (V, time.Duration, error)

// Loader reads through a Cache. Concurrent misses on one key share a
// single LoadFunc call.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
}

// NewLoader creates a Loader over c.
func NewLoader[V any](c Cache[V]) *Loader[V] {
	return &Loader[V]{cache: c}
}

// Get returns the cached value for key, or calls load on a miss and caches
// its result. Errors from load are returned and never cached.
func (l *Loader[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// a failed write only costs the next lookup
		_ = l.cache.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops key from the cache.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	return l.cache.Delete(ctx, key)
}
