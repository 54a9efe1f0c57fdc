package api

import "context"

/*
Store is the synchronous contract of a single bounded cache.
It is satisfied by cache.BoundedCache and is what a sharded cache holds per shard.
*/
type Store[K comparable, V any] interface {

	// Put stores value under key, evicting one entry if a new key arrives at capacity.
	// Absent keys or values are ignored.
	Put(key K, value V)

	// Get returns the value for key; ok is false on a miss.
	Get(key K) (value V, ok bool)

	// Peek returns the value for key without counting an access.
	Peek(key K) (value V, ok bool)

	// Remove deletes key without emitting a discard notification.
	Remove(key K) bool

	// Len returns the number of stored entries.
	Len() int

	// Cap returns the maximum number of entries.
	Cap() int
}

/*
Cache defines the PUBLIC API of the sharded, read-through cache.
Sharding, eviction, loading and write propagation are hidden behind this interface.
*/
type Cache[V any] interface {

	/*
		Get retrieves the value associated with the given key.

		1. If the key is cached: return it (found = true).
		2. Otherwise load it from the backing store, cache it and return it.
		3. If the store does not have it either: found = false, err = nil.

		err is only set when the backing store fails.
	*/
	Get(ctx context.Context, key string) (value V, found bool, err error)

	/*
		Put stores a key-value pair in the cache.

		- Applies the eviction policy if the owning shard is full
		- Applies the write policy (write-through or write-back)
	*/
	Put(ctx context.Context, key string, value V) error

	/*
		Remove deletes a key from the cache immediately.
		It does NOT affect the backing store.
		Removing a missing key is safe and reports false.
	*/
	Remove(key string) bool

	// Len returns the number of entries across all shards.
	Len() int

	// Close flushes pending write-back operations and stops background goroutines.
	Close()
}
