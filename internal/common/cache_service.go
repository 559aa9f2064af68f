package common

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process CacheInterface implementation. Single-node
// deploys run on it alone; with REDIS_HOST set the Redis implementation
// takes over so replicas share entries.
type MemoryCache struct {
	store *gocache.Cache
}

var _ CacheInterface = (*MemoryCache)(nil)

// NewCacheService builds an in-process cache. The default expiration applies
// to Set calls with a zero duration; expired entries are purged on the
// cleanup interval.
func NewCacheService(defaultExpirationSeconds, cleanUpIntervalSeconds int) *MemoryCache {
	return &MemoryCache{store: gocache.New(
		time.Duration(defaultExpirationSeconds)*time.Second,
		time.Duration(cleanUpIntervalSeconds)*time.Second,
	)}
}

func (m *MemoryCache) Set(key string, value interface{}, duration time.Duration) {
	m.store.Set(key, value, duration)
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	return m.store.Get(key)
}

func (m *MemoryCache) Delete(key string) {
	m.store.Delete(key)
}

// GetOrSet loads through on a miss. Loader errors are returned uncached so
// the next caller retries.
func (m *MemoryCache) GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error) {
	if val, found := m.store.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	m.store.Set(key, val, duration)
	return val, nil
}

// Close is a no-op; go-cache stops its janitor via finalizer.
func (m *MemoryCache) Close() error {
	return nil
}
