package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/krisalay/bounded-cache/api"
	"github.com/krisalay/bounded-cache/engine"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/internal"
	"github.com/krisalay/bounded-cache/shard"
	"github.com/krisalay/bounded-cache/types"
	"golang.org/x/sync/singleflight"
)

var _ api.Cache[int] = (*ShardedCache[int])(nil)

/*
ShardedCache splits one capacity across several BoundedCache shards and adds
read-through loading and write propagation on top.

Each shard has its own lock and its own policy instance, so eviction order is
per shard: with LRU, the evicted key is the least recently used one of the
shard the new key lands in.
*/
type ShardedCache[V any] struct {
	shards []api.Store[string, V]

	// engine contains the rules of the cache: loader, write policy, metrics.
	engine *engine.CacheEngine[V]

	// selector decides which shard a key should go to.
	selector shard.Selector

	// sf prevents multiple goroutines from loading the same key from the backing store simultaneously.
	sf singleflight.Group
}

// NewShardedCache creates a cache of the given total capacity spread over shards.
// Shard capacities differ by at most one, so capacity must be at least shards.
func NewShardedCache[V any](
	shards int,
	capacity int,
	policy eviction.PolicyType,
	eng *engine.CacheEngine[V],
	opts ...Option[string],
) (*ShardedCache[V], error) {
	if shards < 1 {
		return nil, fmt.Errorf("%w: need at least one shard, got %d", ErrInvalidCapacity, shards)
	}
	if capacity < shards {
		return nil, fmt.Errorf("%w: capacity %d is smaller than shard count %d", ErrInvalidCapacity, capacity, shards)
	}
	if eng == nil {
		eng = engine.NewCacheEngine[V](nil, nil, nil)
	}

	// Evictions are reported through the engine's metrics unless the caller overrides it.
	opts = append([]Option[string]{WithMetrics[string](eng.Metrics)}, opts...)

	s := make([]api.Store[string, V], shards)
	for i := range s {
		size := capacity / shards
		if i < capacity%shards {
			size++
		}
		bc, err := NewBoundedCache[string, V](size, policy, opts...)
		if err != nil {
			return nil, err
		}
		s[i] = bc
	}

	return &ShardedCache[V]{
		shards:   s,
		engine:   eng,
		selector: shard.FNVSelector{},
	}, nil
}

func (c *ShardedCache[V]) shardFor(key string) api.Store[string, V] {
	return c.shards[c.selector.Select(key, len(c.shards))]
}

// Get retrieves a value from the cache, loading it from the backing store on a miss.
func (c *ShardedCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if internal.ValidateKey(key) != nil {
		return zero, false, nil
	}

	sh := c.shardFor(key)
	if v, ok := sh.Get(key); ok {
		return v, true, nil
	}

	/*
		singleflight ensures that:
		- If 100 goroutines request the same missing key,
		  only ONE of them loads it from the backing store.
		- Others wait for the result.
	*/
	res, err, _ := c.sf.Do(key, func() (any, error) {
		// A flight that finished after our miss may already have cached the key.
		if v, ok := sh.Peek(key); ok {
			return v, nil
		}
		v, err := c.engine.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		// Loaded values come from the store, so they are cached without a write-back.
		sh.Put(key, v)
		return v, nil
	})
	if errors.Is(err, types.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("load %q: %w", key, err)
	}

	v, ok := res.(V)
	if !ok || internal.IsNil(v) {
		return zero, false, nil
	}
	return v, true, nil
}

// Put stores a value in its shard, then hands it to the write policy.
// Absent keys or values are ignored, like BoundedCache.Put.
func (c *ShardedCache[V]) Put(ctx context.Context, key string, value V) error {
	if validate(key, value) != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.shardFor(key).Put(key, value)
	c.engine.OnWrite(ctx, key, value)
	return nil
}

// Remove deletes a key from the cache immediately. The backing store is untouched.
func (c *ShardedCache[V]) Remove(key string) bool {
	if internal.ValidateKey(key) != nil {
		return false
	}
	return c.shardFor(key).Remove(key)
}

// Len returns the number of entries across all shards.
func (c *ShardedCache[V]) Len() int {
	n := 0
	for _, s := range c.shards {
		n += s.Len()
	}
	return n
}

// Cap returns the total capacity across all shards.
func (c *ShardedCache[V]) Cap() int {
	n := 0
	for _, s := range c.shards {
		n += s.Cap()
	}
	return n
}

/*
Close gracefully shuts down the cache.
This is important for write-back policies, so pending writes are flushed.
*/
func (c *ShardedCache[V]) Close() {
	c.engine.Close()
}
