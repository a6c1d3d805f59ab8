package cache

import (
	"context"
	"time"
)

// Cache defines a string-keyed cache API with per-entry TTL and LRU eviction.
// Implementations may or may not be goroutine-safe depending on configuration.
type Cache[V any] interface {
	// Get returns the value and whether it was present and not expired.
	// Expired entries are removed as a side effect and counted as a miss.
	Get(key string) (V, bool)

	// Set stores the value. If ttl <= 0, the cache's default TTL applies.
	Set(key string, value V, ttl time.Duration)

	// GetOrSet returns the cached value or computes, stores and returns a fresh one.
	// Concurrent misses for the same key may each call compute.
	GetOrSet(ctx context.Context, key string, compute func(context.Context) (V, error), ttl time.Duration) (V, error)

	// Delete removes a key and reports whether it was present.
	Delete(key string) bool

	// Has reports whether a key is present and not expired.
	Has(key string) bool

	// InvalidatePattern removes every key that starts with or contains pattern.
	InvalidatePattern(pattern string) int

	// Touch resets an entry's age, optionally replacing its TTL.
	Touch(key string, ttl time.Duration) bool

	// Stats returns hit/miss counters and size information.
	Stats() Stats

	// Len returns the number of entries currently held, expired or not.
	Len() int

	// Clear removes all entries and resets the counters.
	Clear()

	// PurgeExpired scans and removes expired entries.
	PurgeExpired() int
}

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	Hits        int64  `json:"hits"`
	Misses      int64  `json:"misses"`
	Size        int    `json:"size"`
	HitRate     int    `json:"hitRate"` // percent, rounded
	MemoryBytes int64  `json:"memoryBytes"`
	MemoryUsage string `json:"memoryUsage"`
}

// Storage is the durable backend a cache mirrors its entries to.
// localstore.Store satisfies it.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}
