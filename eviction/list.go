package eviction

// node is one tracked key inside a keyList.
type node[K comparable] struct {
	key K

	// prev points towards the front of the list, next towards the back.
	prev *node[K]
	next *node[K]
}

/*
keyList is an ordered set of keys: a doubly-linked list plus a key -> node index.

Every policy variant keeps its ordering in one of these, so inserting, moving,
removing and popping a key are all O(1). The list has no opinion about what
"front" and "back" mean; each policy decides that.
*/
type keyList[K comparable] struct {
	nodes map[K]*node[K]

	head *node[K]
	tail *node[K]
}

func newKeyList[K comparable]() *keyList[K] {
	return &keyList[K]{nodes: make(map[K]*node[K])}
}

func (l *keyList[K]) len() int { return len(l.nodes) }

func (l *keyList[K]) contains(k K) bool {
	_, ok := l.nodes[k]
	return ok
}

// pushFront adds k at the front. The key must not already be tracked.
func (l *keyList[K]) pushFront(k K) {
	n := &node[K]{key: k}
	l.nodes[k] = n
	l.linkFront(n)
}

// pushBack adds k at the back. The key must not already be tracked.
func (l *keyList[K]) pushBack(k K) {
	n := &node[K]{key: k}
	l.nodes[k] = n
	l.linkBack(n)
}

func (l *keyList[K]) moveToFront(k K) {
	n, ok := l.nodes[k]
	if !ok || n == l.head {
		return
	}
	l.unlink(n)
	l.linkFront(n)
}

func (l *keyList[K]) moveToBack(k K) {
	n, ok := l.nodes[k]
	if !ok || n == l.tail {
		return
	}
	l.unlink(n)
	l.linkBack(n)
}

// remove drops k from the list. It reports whether k was tracked.
func (l *keyList[K]) remove(k K) bool {
	n, ok := l.nodes[k]
	if !ok {
		return false
	}
	l.unlink(n)
	delete(l.nodes, k)
	return true
}

func (l *keyList[K]) popFront() (K, bool) {
	if l.head == nil {
		var zero K
		return zero, false
	}
	k := l.head.key
	l.remove(k)
	return k, true
}

func (l *keyList[K]) popBack() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	k := l.tail.key
	l.remove(k)
	return k, true
}

// frontToBack returns the keys starting at the front.
func (l *keyList[K]) frontToBack() []K {
	keys := make([]K, 0, len(l.nodes))
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// backToFront returns the keys starting at the back.
func (l *keyList[K]) backToFront() []K {
	keys := make([]K, 0, len(l.nodes))
	for n := l.tail; n != nil; n = n.prev {
		keys = append(keys, n.key)
	}
	return keys
}

func (l *keyList[K]) linkFront(n *node[K]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n

	// If the list was empty, head and tail are the same
	if l.tail == nil {
		l.tail = n
	}
}

func (l *keyList[K]) linkBack(n *node[K]) {
	n.next = nil
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	}
	l.tail = n

	if l.head == nil {
		l.head = n
	}
}

// unlink detaches n and fixes up head and tail. The index is left alone.
func (l *keyList[K]) unlink(n *node[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
