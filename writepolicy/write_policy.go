package writepolicy

import "context"

/*
This file defines what a "write policy" is.

Different systems have different needs:
- Some want strong consistency (write-through)
- Some want high performance (write-back)

Instead of hard-coding one behavior, we define an interface so we can plug in different strategies.
*/

// WritePolicy is the contract that all write policies must follow.
type WritePolicy[V any] interface {

	// OnWrite is called whenever the cache stores a key through Put.
	OnWrite(ctx context.Context, key string, value V)

	// Close is called when the cache is shutting down.
	Close()
}
