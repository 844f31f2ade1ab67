// Package cache stores rendered frame artifacts so that repeated requests
// for the same frame skip Graphviz.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several server instances
//
// Keys come from a [Keyer]. [Fetch] wraps the get-compute-set sequence and
// reports hits and misses to the observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/rankplay/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Fetch returns the cached value for key or computes, stores and returns it.
// The bool reports a cache hit. Cache read and write failures degrade to
// computing; only compute errors are returned.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
