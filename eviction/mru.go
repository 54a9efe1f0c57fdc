// This file implements MRU eviction.

package eviction

// mru keeps the same recency order as lru but evicts from the other end.
type mru[K comparable] struct {
	recency *keyList[K]
}

func newMRU[K comparable]() *mru[K] {
	return &mru[K]{recency: newKeyList[K]()}
}

func (m *mru[K]) OnInsert(k K) {
	if m.recency.contains(k) {
		m.recency.moveToFront(k)
		return
	}
	m.recency.pushFront(k)
}

func (m *mru[K]) OnAccess(k K, _ Access) { m.recency.moveToFront(k) }

func (m *mru[K]) OnRemove(k K) { m.recency.remove(k) }

// Victim removes the MOST recently used key, which sits at the front.
func (m *mru[K]) Victim() (K, bool) { return m.recency.popFront() }

func (m *mru[K]) Keys() []K { return m.recency.frontToBack() }

func (m *mru[K]) Len() int { return m.recency.len() }
