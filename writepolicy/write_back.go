package writepolicy

import (
	"context"
	"sync"

	"github.com/krisalay/bounded-cache/types"
	"go.uber.org/zap"
)

// writeReq represents one pending write operation that needs to be sent to the backing store.
type writeReq[V any] struct {
	ctx   context.Context
	key   string
	value V
}

/*
WriteBackPolicy manages asynchronous writes to the backing store.
*/
type WriteBackPolicy[V any] struct {
	store  types.Loader[V]
	logger *zap.Logger

	// ch is a buffered channel that holds pending write requests.
	ch chan writeReq[V]

	// mu guards closed so OnWrite never sends on a closed channel.
	mu     sync.RWMutex
	closed bool

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

// NewWriteBackPolicy creates a write-back policy with a queue of buffer writes
// and starts its worker. logger may be nil.
func NewWriteBackPolicy[V any](store types.Loader[V], buffer int, logger *zap.Logger) *WriteBackPolicy[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WriteBackPolicy[V]{
		store:  store,
		logger: logger,
		ch:     make(chan writeReq[V], buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the write for the worker. We do NOT write to the backing store immediately.
// If the queue is full (or the policy is closed), the write is DROPPED and logged:
// blocking here would slow down the cache.
func (w *WriteBackPolicy[V]) OnWrite(ctx context.Context, key string, value V) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.logger.Warn("Write-back closed, dropping write", zap.String("key", key))
		return
	}

	select {
	case w.ch <- writeReq[V]{ctx, key, value}:
	default:
		w.logger.Warn("Write-back queue full, dropping write", zap.String("key", key))
	}
}

// worker drains the queue into the backing store. This is where eventual consistency happens.
func (w *WriteBackPolicy[V]) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Put(req.ctx, req.key, req.value); err != nil {
			w.logger.Error("Write-back failed", zap.String("key", req.key), zap.Error(err))
		}
	}
}

/*
Close shuts down the write-back policy gracefully:
1. Stop accepting writes and close the channel
2. Wait for the worker to finish processing queued writes

Calling Close more than once is safe.
*/
func (w *WriteBackPolicy[V]) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
	w.mu.Unlock()

	w.wg.Wait()
}
