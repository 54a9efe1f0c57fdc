package shard

import "hash/fnv"

/*
This file decides HOW a cache key is assigned to a shard.
If every request went to the same shard, that shard's lock would become a bottleneck.
*/

// Selector decides which of n shards should handle a given key.
// It must always return the same index for the same key and n.
type Selector interface {
	Select(key string, n int) int
}

// FNVSelector spreads keys with the FNV-1a hash, a fast non-cryptographic hash.
type FNVSelector struct{}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Select returns a shard index in [0, n).
func (FNVSelector) Select(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(hash(key) % uint32(n))
}
