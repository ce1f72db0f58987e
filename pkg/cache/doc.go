// Package cache provides a small in-process cache with TTL expiry and LRU
// eviction, and a read-through Loader that collapses concurrent misses.
//
// The session package uses it to keep recent Redis session lookups in
// memory:
//
//	mem := cache.NewMemory[*session.Session](cache.WithMaxEntries(10000))
//	defer mem.Close()
//
//	loader := cache.NewLoader[*session.Session](mem)
//	sess, err := loader.Get(ctx, token, func(ctx context.Context) (*session.Session, time.Duration, error) {
//	    s, err := store.Get(ctx, token)
//	    return s, 15 * time.Second, err
//	})
//
// Errors returned by the load function are passed through and not cached.
package cache
