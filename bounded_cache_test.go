package cache_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
	"testing"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/eviction"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

//
// ================= HELPERS =================
//

type countingMetrics struct {
	mu      sync.Mutex
	hits    int
	misses  int
	evicted int
}

func (m *countingMetrics) Hit()      { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *countingMetrics) Miss()     { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *countingMetrics) Eviction() { m.mu.Lock(); m.evicted++; m.mu.Unlock() }

func newCache[K comparable, V any](t *testing.T, capacity int, policy eviction.PolicyType, opts ...cache.Option[K]) *cache.BoundedCache[K, V] {
	t.Helper()
	c, err := cache.NewBoundedCache[K, V](capacity, policy, opts...)
	if err != nil {
		t.Fatalf("NewBoundedCache(%d, %s): %v", capacity, policy, err)
	}
	return c
}

// checkInvariants verifies the capacity bound and that the policy tracks exactly the stored keys.
func checkInvariants[K comparable, V any](t *testing.T, c *cache.BoundedCache[K, V]) {
	t.Helper()
	if c.Len() > c.Cap() {
		t.Fatalf("size %d exceeds capacity %d", c.Len(), c.Cap())
	}
	keys := c.Keys()
	if len(keys) != c.Len() {
		t.Fatalf("policy tracks %d keys, table holds %d", len(keys), c.Len())
	}
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			t.Fatalf("policy tracks %v twice", k)
		}
		seen[k] = struct{}{}
		if _, ok := c.Peek(k); !ok {
			t.Fatalf("policy tracks %v but the table does not hold it", k)
		}
	}
}

//
// ================= CONSTRUCTION =================
//

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := cache.NewBoundedCache[string, int](capacity, eviction.LRU); !errors.Is(err, cache.ErrInvalidCapacity) {
			t.Fatalf("capacity %d: expected ErrInvalidCapacity, got %v", capacity, err)
		}
	}
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	if _, err := cache.NewBoundedCache[string, int](2, "CLOCK"); !errors.Is(err, eviction.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

//
// ================= BASIC OPERATIONS =================
//

func TestPutAndGet(t *testing.T) {
	c := newCache[string, string](t, cache.DefaultCapacity, eviction.FIFO)

	c.Put("key1", "value1")
	v, ok := c.Get("key1")
	if !ok || v != "value1" {
		t.Fatalf("expected value1, got %q ok=%v", v, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
	if _, ok := c.Get(""); ok {
		t.Fatalf("expected miss for empty key")
	}
}

func TestUpdateExistingKey(t *testing.T) {
	c := newCache[string, string](t, 2, eviction.LRU)

	c.Put("key1", "value1")
	c.Put("key1", "value2")

	v, _ := c.Get("key1")
	if v != "value2" {
		t.Fatalf("expected value2, got %q", v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}
}

func TestNullGuard(t *testing.T) {
	c := newCache[string, any](t, 2, eviction.LRU)
	var nilPtr *int
	var nilMap map[string]int

	c.Put("", 1)
	c.Put("a", nil)
	c.Put("b", nilPtr)
	c.Put("c", nilMap)
	if c.Len() != 0 {
		t.Fatalf("expected absent keys and values to be ignored, got keys %v", c.Keys())
	}

	// Zero values are present values.
	c.Put("zero", 0)
	if v, ok := c.Get("zero"); !ok || v != 0 {
		t.Fatalf("expected zero value to be stored, got %v ok=%v", v, ok)
	}

	pc := newCache[*string, string](t, 2, eviction.FIFO)
	pc.Put(nil, "x")
	if pc.Len() != 0 {
		t.Fatalf("expected nil key to be ignored")
	}
	if _, ok := pc.Get(nil); ok {
		t.Fatalf("expected miss for nil key")
	}
}

func TestNullGuardDoesNotEvict(t *testing.T) {
	var discarded []string
	c := newCache[string, any](t, 1, eviction.FIFO,
		cache.WithDiscardHandler(func(k string) { discarded = append(discarded, k) }))

	c.Put("a", 1)
	c.Put("b", nil)
	if len(discarded) != 0 {
		t.Fatalf("ignored put evicted %v", discarded)
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive an ignored put")
	}
}

type wrapKey struct{ X any }

func TestUnusableKeysAreIgnored(t *testing.T) {
	fc := newCache[float64, int](t, 2, eviction.FIFO)
	for i := 0; i < 5; i++ {
		fc.Put(math.NaN(), i)
	}
	if fc.Len() != 0 {
		t.Fatalf("expected NaN keys to be ignored, got len=%d", fc.Len())
	}
	if _, ok := fc.Get(math.NaN()); ok {
		t.Fatalf("expected miss for NaN key")
	}
	if fc.Remove(math.NaN()) {
		t.Fatalf("expected Remove(NaN) to report false")
	}
	fc.Put(0, 1)
	fc.Put(1.5, 2)
	fc.Put(math.NaN(), 3)
	checkInvariants(t, fc)

	ac := newCache[any, int](t, 2, eviction.LRU)
	ac.Put(wrapKey{X: []int{1}}, 1)
	ac.Put([]int{1}, 2)
	ac.Put(wrapKey{X: math.NaN()}, 3)
	if ac.Len() != 0 {
		t.Fatalf("expected unhashable keys to be ignored, got keys %v", ac.Keys())
	}
	if _, ok := ac.Peek(wrapKey{X: []int{1}}); ok {
		t.Fatalf("expected miss for unhashable key")
	}

	ac.Put(wrapKey{X: 1}, 4)
	if v, ok := ac.Get(wrapKey{X: 1}); !ok || v != 4 {
		t.Fatalf("expected hashable struct key to be stored, got %v ok=%v", v, ok)
	}
}

func TestDiscardBeforeInsert(t *testing.T) {
	c := newCache[string, int](t, 2, eviction.FIFO,
		cache.WithDiscardHandler(func(k string) { panic("discard " + k) }))

	c.Put("a", 1)
	c.Put("b", 2)

	func() {
		defer func() {
			if r := recover(); r != "discard a" {
				t.Fatalf("expected handler to run for a, got %v", r)
			}
		}()
		c.Put("c", 3)
	}()

	// The victim is gone and the new key was not installed yet when the handler ran.
	if _, ok := c.Peek("a"); ok {
		t.Fatalf("expected a to be removed before the notification")
	}
	if _, ok := c.Peek("c"); ok {
		t.Fatalf("expected c to be installed after the notification")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestRemove(t *testing.T) {
	var discarded []string
	c := newCache[string, int](t, 2, eviction.LRU,
		cache.WithDiscardHandler(func(k string) { discarded = append(discarded, k) }))

	c.Put("a", 1)
	c.Put("b", 2)

	if !c.Remove("a") {
		t.Fatalf("expected Remove(a) to report true")
	}
	if c.Remove("a") {
		t.Fatalf("expected second Remove(a) to report false")
	}
	if len(discarded) != 0 {
		t.Fatalf("explicit remove emitted discard %v", discarded)
	}
	checkInvariants(t, c)

	// Freed slot is reused without eviction.
	c.Put("c", 3)
	if len(discarded) != 0 || c.Len() != 2 {
		t.Fatalf("expected no eviction after remove, got %v len=%d", discarded, c.Len())
	}
}

func TestPeekDoesNotTouchOrder(t *testing.T) {
	c := newCache[int, string](t, 2, eviction.LRU)
	c.Put(1, "a")
	c.Put(2, "b")

	if v, ok := c.Peek(1); !ok || v != "a" {
		t.Fatalf("peek: %q ok=%v", v, ok)
	}
	c.Put(3, "c")

	if _, ok := c.Peek(1); ok {
		t.Fatalf("expected 1 evicted: Peek must not count as use")
	}
}

//
// ================= EVICTION POLICIES =================
//

func TestFIFOEvictsOldestRegardlessOfGets(t *testing.T) {
	c := newCache[string, string](t, cache.DefaultCapacity, eviction.FIFO)

	for _, k := range []string{"A", "B", "C", "D"} {
		c.Put(k, "v"+k)
	}
	c.Get("A")
	c.Get("A")
	c.Put("E", "vE")

	if _, ok := c.Get("A"); ok {
		t.Fatalf("expected A (oldest inserted) to be evicted")
	}
	for _, k := range []string{"B", "C", "D", "E"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %s to remain", k)
		}
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := newCache[int, string](t, 2, eviction.LRU)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Get(1)
	c.Put(3, "c")

	if _, ok := c.Get(2); ok {
		t.Fatalf("expected 2 to be evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatalf("expected 1 to remain")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatalf("expected 3 to remain")
	}
}

func TestMRUEvictsMostRecentlyUsed(t *testing.T) {
	c := newCache[int, string](t, 2, eviction.MRU)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Get(1)
	c.Put(3, "c")

	if _, ok := c.Peek(1); ok {
		t.Fatalf("expected 1 to be evicted")
	}
	if _, ok := c.Peek(2); !ok {
		t.Fatalf("expected 2 to remain")
	}
	if _, ok := c.Peek(3); !ok {
		t.Fatalf("expected 3 to remain")
	}
}

func TestLIFOEvictsMostRecentlyInserted(t *testing.T) {
	c := newCache[int, string](t, 2, eviction.LIFO)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")

	if _, ok := c.Peek(2); ok {
		t.Fatalf("expected 2 to be evicted")
	}
	if _, ok := c.Peek(1); !ok {
		t.Fatalf("expected 1 to remain")
	}
	if _, ok := c.Peek(3); !ok {
		t.Fatalf("expected 3 to remain")
	}
}

func TestLIFORePutMovesToMostRecent(t *testing.T) {
	c := newCache[int, string](t, 2, eviction.LIFO)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(1, "a2") // 1 is now the most recent insertion
	c.Get(2)       // reads do not count
	c.Put(3, "c")

	if _, ok := c.Peek(1); ok {
		t.Fatalf("expected 1 to be evicted after being re-put")
	}
	if _, ok := c.Peek(2); !ok {
		t.Fatalf("expected 2 to remain")
	}
}

func TestLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	c := newCache[string, int](t, 2, eviction.LFU)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("a")
	c.Get("b")
	c.Put("c", 3)

	if _, ok := c.Peek("b"); ok {
		t.Fatalf("expected b (fewer accesses) to be evicted")
	}
	if _, ok := c.Peek("a"); !ok {
		t.Fatalf("expected a to remain")
	}
}

func TestRePutNeverEvicts(t *testing.T) {
	for _, pt := range eviction.PolicyTypes {
		t.Run(string(pt), func(t *testing.T) {
			evictions := 0
			c := newCache[string, int](t, 3, pt,
				cache.WithDiscardHandler(func(string) { evictions++ }))

			c.Put("a", 1)
			c.Put("b", 2)
			c.Put("c", 3)
			for i := 0; i < 5; i++ {
				c.Put("b", 2)
			}

			if evictions != 0 {
				t.Fatalf("re-put triggered %d evictions", evictions)
			}
			if c.Len() != 3 {
				t.Fatalf("expected size 3, got %d", c.Len())
			}
			checkInvariants(t, c)
		})
	}
}

//
// ================= DISCARD NOTIFICATION =================
//

func TestDiscardNotificationsInEvictionOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := &countingMetrics{}
	var discarded []int

	c := newCache[int, string](t, 2, eviction.FIFO,
		cache.WithLogger[int](zap.New(core)),
		cache.WithMetrics[int](metrics),
		cache.WithDiscardHandler(func(k int) { discarded = append(discarded, k) }),
	)

	for i := 1; i <= 5; i++ {
		c.Put(i, fmt.Sprintf("v%d", i))
	}

	if want := []int{1, 2, 3}; !slices.Equal(discarded, want) {
		t.Fatalf("discarded %v, want %v", discarded, want)
	}
	if metrics.evicted != 3 {
		t.Fatalf("expected 3 eviction metrics, got %d", metrics.evicted)
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("DISCARD: %d", i+1); e.Message != want {
			t.Fatalf("log %d = %q, want %q", i, e.Message, want)
		}
	}
}

func TestHitAndMissMetrics(t *testing.T) {
	metrics := &countingMetrics{}
	c := newCache[string, int](t, 2, eviction.LRU, cache.WithMetrics[string](metrics))

	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("b")
	c.Get("")

	if metrics.hits != 2 || metrics.misses != 2 {
		t.Fatalf("hits=%d misses=%d, want 2 and 2", metrics.hits, metrics.misses)
	}
}

//
// ================= INVARIANTS =================
//

func TestInvariantsUnderRandomOperations(t *testing.T) {
	for _, pt := range eviction.PolicyTypes {
		t.Run(string(pt), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			c := newCache[int, int](t, 5, pt)

			for i := 0; i < 2000; i++ {
				k := rng.Intn(20)
				switch rng.Intn(4) {
				case 0, 1:
					c.Put(k, i)
				case 2:
					c.Get(k)
				case 3:
					c.Remove(k)
				}
				checkInvariants(t, c)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	for _, pt := range eviction.PolicyTypes {
		t.Run(string(pt), func(t *testing.T) {
			var evictions sync.Map
			c := newCache[string, int](t, 16, pt,
				cache.WithDiscardHandler(func(k string) { evictions.Store(k, true) }))

			var wg sync.WaitGroup
			for g := 0; g < 20; g++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						key := fmt.Sprintf("key-%d", (id*7+i)%40)
						c.Put(key, i)
						c.Get(key)
						if i%10 == 0 {
							c.Remove(key)
						}
					}
				}(g)
			}
			wg.Wait()

			checkInvariants(t, c)
		})
	}
}
