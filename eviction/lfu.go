// This file implements LFU eviction.

package eviction

import "slices"

type lfu[K comparable] struct {
	// freq records how many times each tracked key was inserted or accessed.
	freq map[K]int

	// buckets groups keys by frequency. Inside a bucket the front is the key
	// that reached this frequency first, which makes ties deterministic.
	buckets map[int]*keyList[K]

	// minFreq keeps track of the smallest frequency currently present.
	// This avoids scanning the buckets on eviction.
	minFreq int
}

func newLFU[K comparable]() *lfu[K] {
	return &lfu[K]{
		freq:    make(map[K]int),
		buckets: make(map[int]*keyList[K]),
	}
}

// OnInsert starts a new key at frequency 1. Re-inserting a tracked key counts as an access.
func (l *lfu[K]) OnInsert(k K) {
	if _, ok := l.freq[k]; ok {
		l.bump(k)
		return
	}
	l.freq[k] = 1
	l.bucket(1).pushBack(k)

	// Since a new key with freq=1 exists, minFreq must be 1
	l.minFreq = 1
}

func (l *lfu[K]) OnAccess(k K, _ Access) {
	if _, ok := l.freq[k]; ok {
		l.bump(k)
	}
}

func (l *lfu[K]) OnRemove(k K) {
	f, ok := l.freq[k]
	if !ok {
		return
	}
	delete(l.freq, k)
	l.drop(f, k)
	// minFreq may now point at an empty bucket; Victim repairs it.
}

// Victim evicts the oldest key among those with the lowest frequency.
func (l *lfu[K]) Victim() (K, bool) {
	if len(l.freq) == 0 {
		var zero K
		return zero, false
	}
	if _, ok := l.buckets[l.minFreq]; !ok {
		l.minFreq = slices.Min(l.bucketFreqs())
	}

	b := l.buckets[l.minFreq]
	k, _ := b.popFront()
	if b.len() == 0 {
		delete(l.buckets, l.minFreq)
	}
	delete(l.freq, k)
	return k, true
}

// Keys lists keys by ascending frequency, oldest first within a frequency.
func (l *lfu[K]) Keys() []K {
	keys := make([]K, 0, len(l.freq))
	freqs := l.bucketFreqs()
	slices.Sort(freqs)
	for _, f := range freqs {
		keys = append(keys, l.buckets[f].frontToBack()...)
	}
	return keys
}

func (l *lfu[K]) Len() int { return len(l.freq) }

// bump moves k from its current bucket to the next one.
func (l *lfu[K]) bump(k K) {
	old := l.freq[k]
	l.freq[k] = old + 1
	l.drop(old, k)

	// If the old bucket emptied and it was the minimum, the minimum moves up by one.
	if _, ok := l.buckets[old]; !ok && l.minFreq == old {
		l.minFreq = old + 1
	}
	l.bucket(old + 1).pushBack(k)
}

// drop removes k from bucket f, deleting the bucket once it is empty.
func (l *lfu[K]) drop(f int, k K) {
	b, ok := l.buckets[f]
	if !ok {
		return
	}
	b.remove(k)
	if b.len() == 0 {
		delete(l.buckets, f)
	}
}

func (l *lfu[K]) bucket(f int) *keyList[K] {
	b, ok := l.buckets[f]
	if !ok {
		b = newKeyList[K]()
		l.buckets[f] = b
	}
	return b
}

// bucketFreqs returns the frequencies that currently have a bucket, in no
// particular order.
func (l *lfu[K]) bucketFreqs() []int {
	freqs := make([]int, 0, len(l.buckets))
	for f := range l.buckets {
		freqs = append(freqs, f)
	}
	return freqs
}
