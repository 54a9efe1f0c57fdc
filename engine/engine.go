package engine

import (
	"context"

	"github.com/krisalay/bounded-cache/types"
	"github.com/krisalay/bounded-cache/writepolicy"
)

/*
CacheEngine holds the rules a ShardedCache applies around its shards.

It decides:
- How data is loaded on cache miss
- How writes are propagated to the backing store
- Where hits, misses and evictions are reported

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Decide eviction order
*/
type CacheEngine[V any] struct {

	// Loader is how the cache talks to the backing store when it does NOT have the data.
	// This enables “read-through caching”.
	// If nil, every miss stays a miss.
	Loader types.Loader[V]

	// WritePolicy decides what happens when data is written to the cache.
	// If nil, cache writes stay only in memory.
	WritePolicy writepolicy.WritePolicy[V]

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics
}

// NewCacheEngine creates a CacheEngine. Any argument may be nil.
func NewCacheEngine[V any](
	loader types.Loader[V],
	writePolicy writepolicy.WritePolicy[V],
	metrics types.Metrics,
) *CacheEngine[V] {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine[V]{
		Loader:      loader,
		WritePolicy: writePolicy,
		Metrics:     metrics,
	}
}

/*
Load is used when the cache does NOT have the data.

Without a loader it reports types.ErrNotFound, which the cache treats as a plain miss.
*/
func (e *CacheEngine[V]) Load(ctx context.Context, key string) (V, error) {
	if e.Loader == nil {
		var zero V
		return zero, types.ErrNotFound
	}
	return e.Loader.Load(ctx, key)
}

// OnWrite forwards a cache write to the write policy, if one is configured.
func (e *CacheEngine[V]) OnWrite(ctx context.Context, key string, value V) {
	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, key, value)
	}
}

// Close flushes the write policy.
func (e *CacheEngine[V]) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
