package common

import "time"

// CacheInterface is the contract shared by the in-process and Redis caches.
// Callers pick TTLs per key; a zero duration means the implementation's
// default expiration.
type CacheInterface interface {
	// Set stores a value under key for the given duration.
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true when the key is present and fresh.
	Get(key string) (interface{}, bool)

	// Delete removes a key. Missing keys are a no-op.
	Delete(key string)

	// GetOrSet returns the cached value, or runs loader and caches its
	// result. Loader errors are returned without caching.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections.
	Close() error
}
