// This file implements LRU eviction.

package eviction

// lru is the concrete implementation of the LRU eviction policy.
type lru[K comparable] struct {
	// recency holds the MOST recently used key at the front
	// and the LEAST recently used key at the back.
	recency *keyList[K]
}

func newLRU[K comparable]() *lru[K] {
	return &lru[K]{recency: newKeyList[K]()}
}

// OnInsert marks a new key as most recently used.
func (l *lru[K]) OnInsert(k K) {
	if l.recency.contains(k) {
		l.recency.moveToFront(k)
		return
	}
	l.recency.pushFront(k)
}

// OnAccess is called whenever a key is read or overwritten. Either way the key
// becomes "recently used", so we move it to the front of the list.
func (l *lru[K]) OnAccess(k K, _ Access) { l.recency.moveToFront(k) }

func (l *lru[K]) OnRemove(k K) { l.recency.remove(k) }

// Victim removes the LEAST recently used key.
// That key is always at the back of the list.
func (l *lru[K]) Victim() (K, bool) { return l.recency.popBack() }

func (l *lru[K]) Keys() []K { return l.recency.backToFront() }

func (l *lru[K]) Len() int { return l.recency.len() }
