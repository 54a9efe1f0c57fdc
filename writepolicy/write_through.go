package writepolicy

import (
	"context"

	"github.com/krisalay/bounded-cache/types"
	"go.uber.org/zap"
)

/*
WriteThroughPolicy forwards every cache write to the backing store before Put returns.

So the flow is: Cache write → store write (synchronous)
*/
type WriteThroughPolicy[V any] struct {
	store  types.Loader[V]
	logger *zap.Logger
}

// NewWriteThroughPolicy creates a new write-through policy. logger may be nil.
func NewWriteThroughPolicy[V any](store types.Loader[V], logger *zap.Logger) *WriteThroughPolicy[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteThroughPolicy[V]{store: store, logger: logger}
}

// OnWrite writes the value to the backing store immediately.
// A store failure is logged; the cached value is kept either way.
func (w *WriteThroughPolicy[V]) OnWrite(ctx context.Context, key string, value V) {
	if err := w.store.Put(ctx, key, value); err != nil {
		w.logger.Error("Write-through failed", zap.String("key", key), zap.Error(err))
	}
}

// Close has nothing to flush.
func (w *WriteThroughPolicy[V]) Close() {}
