package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
Calls are made while the cache holds its lock, so implementations must be cheap and must not call back into the cache.
*/
type Metrics interface {

	// Hit is called when Get finds the key.
	Hit()

	// Miss is called when Get does NOT find the key (or the key is invalid).
	Miss()

	// Eviction is called when a key is removed because the cache is full and needs space.
	Eviction()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

It lets the cache call metrics unconditionally instead of checking for nil everywhere.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
