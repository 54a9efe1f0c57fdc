package eviction

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a policy name does not match any variant.
var ErrUnknownPolicy = errors.New("eviction: unknown policy")

// Access tells a policy what kind of touch happened to a key that is already tracked.
type Access uint8

const (
	// Read is a cache hit on Get.
	Read Access = iota

	// Write is a Put that replaced the value of an existing key.
	Write
)

func (a Access) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

/*
Policy is the interface that all eviction strategies must follow.

The cache owns the key -> value table. The policy only keeps ordering metadata
for the same set of keys and names the next victim when the cache is full.

The cache does NOT care how eviction works internally.
It only calls these methods, always while holding its own lock,
so implementations are not safe for concurrent use on their own.
*/
type Policy[K comparable] interface {

	// OnInsert is called after a new key has been added to the cache.
	OnInsert(key K)

	// OnAccess is called when a tracked key is read (Read) or overwritten (Write).
	//
	// Recency policies (LRU, MRU) reorder on both.
	// LIFO only cares about Write. FIFO ignores both.
	OnAccess(key K, a Access)

	// OnRemove is called when a key is explicitly removed from the cache (not evicted).
	OnRemove(key K)

	// Victim is called when the cache is FULL and a new key needs space.
	//
	// It stops tracking the chosen key and returns it.
	// The cache will then actually remove it from storage.
	// ok is false only when nothing is tracked.
	Victim() (key K, ok bool)

	// Keys returns every tracked key, next victim first.
	Keys() []K

	// Len returns the number of tracked keys.
	Len() int
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// FIFO (First In First Out): Evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"

	// LIFO (Last In First Out): Evicts the most recently inserted (or re-put) key.
	LIFO PolicyType = "LIFO"

	// LRU (Least Recently Used): Evicts the key that has NOT been accessed for the longest time.
	LRU PolicyType = "LRU"

	// MRU (Most Recently Used): Evicts the key that was accessed last.
	// Useful for cyclic scans where the key just read is the least likely to be read again soon.
	MRU PolicyType = "MRU"

	// LFU (Least Frequently Used): Evicts the key that has been accessed the fewest times.
	// Ties go to the key that reached that frequency first.
	LFU PolicyType = "LFU"
)

// PolicyTypes lists every supported variant.
var PolicyTypes = []PolicyType{FIFO, LIFO, LRU, MRU, LFU}

// ParsePolicyType maps a case-insensitive name such as "lru" to its PolicyType.
func ParsePolicyType(s string) (PolicyType, error) {
	t := PolicyType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PolicyTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
func NewEvictionPolicy[K comparable](t PolicyType) (Policy[K], error) {
	switch t {
	case FIFO:
		return newFIFO[K](), nil
	case LIFO:
		return newLIFO[K](), nil
	case LRU:
		return newLRU[K](), nil
	case MRU:
		return newMRU[K](), nil
	case LFU:
		return newLFU[K](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(t))
	}
}
