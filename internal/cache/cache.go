// Package cache defines the narrow key-invalidation interface the catalog
// store uses against the external key/value cache, and a go-redis-backed
// implementation of it. The cache itself (what it serves, its eviction
// policy) is out of scope: the core only ever invalidates keys after a
// successful catalog write.
package cache

import "context"

// Cache invalidates cache keys touched by a catalog write. All methods are
// best-effort from the caller's point of view: a failing invalidation is
// logged by the caller and must never fail the write that triggered it.
type Cache interface {
	// Invalidate deletes the given keys. An empty slice is a no-op.
	Invalidate(ctx context.Context, keys ...string) error

	// Close releases any underlying connection.
	Close() error
}

// NoOp is a Cache that drops every invalidation; used when REDIS_URL is
// not configured, so the pipeline can run with caching disabled.
type NoOp struct{}

func (NoOp) Invalidate(ctx context.Context, keys ...string) error { return nil }
func (NoOp) Close() error                                         { return nil }
