// Package cache stores precomputed next-hop tables between runs.
//
// Building the shortest-path tables is O(V³) in the number of departures, so
// the planner keys them by a digest of the timetable and keeps them in a
// [Cache]. Three backends exist: [FileCache] for the CLI, [RedisCache] for
// shared deployments of the HTTP server and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// TablesKeyOpts are the inputs besides the timetable that change the tables.
type TablesKeyOpts struct {
	// Format is bumped whenever the encoded table layout changes.
	Format int `json:"format"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TablesKey returns the key for the next-hop tables of the timetable
	// with the given digest.
	TablesKey(digest string, opts TablesKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TablesKey implements Keyer.
func (DefaultKeyer) TablesKey(digest string, opts TablesKeyOpts) string {
	return hashKey("tables", digest, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TablesKey implements Keyer.
func (k *ScopedKeyer) TablesKey(digest string, opts TablesKeyOpts) string {
	return k.prefix + k.inner.TablesKey(digest, opts)
}
