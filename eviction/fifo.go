// This file implements FIFO eviction.

package eviction

type fifo[K comparable] struct {
	// order keeps keys in the order they were inserted.
	// The front is the oldest key.
	order *keyList[K]
}

func newFIFO[K comparable]() *fifo[K] {
	return &fifo[K]{order: newKeyList[K]()}
}

// OnInsert appends a new key to the back of the queue.
// If the key is already being tracked: Do nothing. FIFO only cares about the first insertion
func (f *fifo[K]) OnInsert(k K) {
	if f.order.contains(k) {
		return
	}
	f.order.pushBack(k)
}

// OnAccess is a no-op: neither reads nor overwrites change insertion order.
func (f *fifo[K]) OnAccess(K, Access) {}

func (f *fifo[K]) OnRemove(k K) { f.order.remove(k) }

// Victim returns the oldest inserted key.
func (f *fifo[K]) Victim() (K, bool) { return f.order.popFront() }

func (f *fifo[K]) Keys() []K { return f.order.frontToBack() }

func (f *fifo[K]) Len() int { return f.order.len() }
