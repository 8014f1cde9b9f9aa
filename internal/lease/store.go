// Package lease provides the distributed mutual-exclusion primitive that
// arbitrates which worker replica runs a given periodic job. A lease is a
// token-guarded key with a TTL in a shared store; whoever creates the key
// owns the job until the key expires or is released with the matching token.
package lease

import (
	"context"
	"time"
)

// Store is the minimal key-value boundary a lease needs: conditional create
// with expiry and compare-and-delete. Both must be atomic in the backing
// store. Tests inject the in-memory implementation.
type Store interface {
	// SetIfAbsent creates key=value with the given TTL only if the key does
	// not exist. Returns false if another value is already present.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// DeleteIfMatch deletes the key only if its current value equals value.
	// Returns false if the key was absent or held a different value.
	DeleteIfMatch(ctx context.Context, key, value string) (bool, error)
}
