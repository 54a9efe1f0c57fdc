package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/internal"
	"github.com/krisalay/bounded-cache/types"
	"go.uber.org/zap"
)

// DefaultCapacity is the number of entries a cache holds when nothing else is configured.
const DefaultCapacity = 4

// ErrInvalidCapacity is returned when a cache is constructed with a capacity below one.
var ErrInvalidCapacity = errors.New("cache: capacity must be at least 1")

/*
BoundedCache is a fixed-capacity key -> value store.

It owns the table; the eviction policy owns the ordering of the same keys.
Both are guarded by one mutex so the policy's bookkeeping always mirrors the
table exactly, even under concurrent use.
*/
type BoundedCache[K comparable, V any] struct {
	mu sync.Mutex

	// table holds the actual data.
	table map[K]V

	// policy decides which key goes when a new key arrives at capacity.
	policy     eviction.Policy[K]
	policyType eviction.PolicyType

	// capacity is fixed at construction.
	capacity int

	logger    *zap.Logger
	metrics   types.Metrics
	onDiscard func(key K)
}

// Option configures a BoundedCache at construction.
type Option[K comparable] func(*options[K])

type options[K comparable] struct {
	logger    *zap.Logger
	metrics   types.Metrics
	onDiscard func(key K)
}

// WithLogger sets the logger used for discard notifications and rejected calls.
func WithLogger[K comparable](l *zap.Logger) Option[K] {
	return func(o *options[K]) { o.logger = l }
}

// WithMetrics sets where hits, misses and evictions are reported.
func WithMetrics[K comparable](m types.Metrics) Option[K] {
	return func(o *options[K]) { o.metrics = m }
}

// WithDiscardHandler registers fn to be called once per eviction, in eviction
// order, with the evicted key. fn runs under the cache lock and must not call
// back into the cache.
func WithDiscardHandler[K comparable](fn func(key K)) Option[K] {
	return func(o *options[K]) { o.onDiscard = fn }
}

// NewBoundedCache creates a cache holding at most capacity entries, evicting with the given policy.
func NewBoundedCache[K comparable, V any](
	capacity int,
	policy eviction.PolicyType,
	opts ...Option[K],
) (*BoundedCache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	p, err := eviction.NewEvictionPolicy[K](policy)
	if err != nil {
		return nil, err
	}

	o := options[K]{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.metrics == nil {
		o.metrics = types.NoopMetrics{}
	}

	return &BoundedCache[K, V]{
		table:      make(map[K]V, capacity),
		policy:     p,
		policyType: policy,
		capacity:   capacity,
		logger:     o.logger,
		metrics:    o.metrics,
		onDiscard:  o.onDiscard,
	}, nil
}

/*
Put stores value under key.

A call with an absent key (nil, nil reference, empty string, a key that is not
equal to itself) or an absent value (nil, nil reference) is ignored.

If the key is new and the cache is full, exactly one entry chosen by the policy
is evicted first and the discard notification is emitted for it. Putting an
existing key replaces its value in place and never evicts.
*/
func (c *BoundedCache[K, V]) Put(key K, value V) {
	if err := validate(key, value); err != nil {
		c.logger.Debug("Ignored put", zap.Any("key", key), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.table[key]; ok {
		c.table[key] = value
		c.policy.OnAccess(key, eviction.Write)
		return
	}

	if len(c.table) >= c.capacity {
		if victim, ok := c.policy.Victim(); ok {
			delete(c.table, victim)
			c.discard(victim)
		}
	}

	c.table[key] = value
	c.policy.OnInsert(key)
}

// Get returns the value stored under key. ok is false when the key is unknown or absent.
func (c *BoundedCache[K, V]) Get(key K) (value V, ok bool) {
	if internal.ValidateKey(key) != nil {
		c.metrics.Miss()
		return value, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok = c.table[key]
	if !ok {
		c.metrics.Miss()
		return value, false
	}

	c.metrics.Hit()
	c.policy.OnAccess(key, eviction.Read)
	return value, true
}

// Peek returns the value stored under key without counting it as an access.
func (c *BoundedCache[K, V]) Peek(key K) (value V, ok bool) {
	if internal.ValidateKey(key) != nil {
		return value, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok = c.table[key]
	return value, ok
}

// Remove deletes key from the cache. It is not an eviction: no discard
// notification is emitted. It reports whether the key was present.
func (c *BoundedCache[K, V]) Remove(key K) bool {
	if internal.ValidateKey(key) != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.table[key]; !ok {
		return false
	}
	delete(c.table, key)
	c.policy.OnRemove(key)
	return true
}

// Len returns the number of entries currently stored.
func (c *BoundedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.table)
}

// Cap returns the capacity fixed at construction.
func (c *BoundedCache[K, V]) Cap() int { return c.capacity }

// Policy returns the eviction policy in use.
func (c *BoundedCache[K, V]) Policy() eviction.PolicyType { return c.policyType }

// Keys returns a snapshot of the keys tracked by the policy, next victim first.
func (c *BoundedCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy.Keys()
}

// discard emits the notification for one eviction. Must be called with mu held.
func (c *BoundedCache[K, V]) discard(key K) {
	c.logger.Info(fmt.Sprintf("DISCARD: %v", key),
		zap.Any("key", key),
		zap.String("policy", string(c.policyType)),
	)
	c.metrics.Eviction()
	if c.onDiscard != nil {
		c.onDiscard(key)
	}
}

func validate(key, value any) error {
	if err := internal.ValidateKey(key); err != nil {
		return err
	}
	return internal.ValidateValue(value)
}
