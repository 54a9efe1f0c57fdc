package types

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Loader when the backing store has no value for the key.
// The cache turns it into an ordinary miss instead of an error.
var ErrNotFound = errors.New("not found")

// Loader is the contract between the cache and the backing store.
type Loader[V any] interface {

	/*
		Load is called when the cache misses. The key was not found in memory, so the cache asks the Loader to fetch it.
		1. Cache checks memory → key not found
		2. Cache calls Load(key)
		3. Loader fetches from the store (or returns ErrNotFound)
		4. Cache stores the result in memory
		5. Cache returns the value
	*/
	Load(ctx context.Context, key string) (V, error)

	/*
		Put is called when the cache needs to write data back to the backing store.

		This is used by write policies:
		- Write-through: write immediately
		- Write-back: write asynchronously later

		This does NOT store data in the cache. It stores data in the backing store.
	*/
	Put(ctx context.Context, key string, value V) error
}

// LoaderFunc adapts a plain function into a read-only Loader. Put is a no-op.
type LoaderFunc[V any] func(ctx context.Context, key string) (V, error)

func (f LoaderFunc[V]) Load(ctx context.Context, key string) (V, error) { return f(ctx, key) }

func (f LoaderFunc[V]) Put(context.Context, string, V) error { return nil }
