// This file implements LIFO eviction.

package eviction

// lifo evicts the key that was inserted last. The back of order is the most
// recent insertion; putting an existing key again counts as a new insertion.
type lifo[K comparable] struct {
	order *keyList[K]
}

func newLIFO[K comparable]() *lifo[K] {
	return &lifo[K]{order: newKeyList[K]()}
}

func (l *lifo[K]) OnInsert(k K) {
	if l.order.contains(k) {
		l.order.moveToBack(k)
		return
	}
	l.order.pushBack(k)
}

// OnAccess moves a re-put key to the most recent position. Reads are ignored.
func (l *lifo[K]) OnAccess(k K, a Access) {
	if a == Write {
		l.order.moveToBack(k)
	}
}

func (l *lifo[K]) OnRemove(k K) { l.order.remove(k) }

// Victim returns the most recently inserted key.
func (l *lifo[K]) Victim() (K, bool) { return l.order.popBack() }

func (l *lifo[K]) Keys() []K { return l.order.backToFront() }

func (l *lifo[K]) Len() int { return l.order.len() }
