package cache

import (
	"time"

	"github.com/TwiN/gocache/v2"
)

const defaultMemoryCacheSize = 10000

type memoryCache struct {
	c *gocache.Cache
}

func newMemoryCache(maxSize int) *memoryCache {
	c := gocache.NewCache().WithMaxSize(maxSize).WithEvictionPolicy(gocache.LeastRecentlyUsed)
	_ = c.StartJanitor()
	return &memoryCache{c: c}
}

func (m *memoryCache) get(key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

func (m *memoryCache) set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.SetWithTTL(key, value, ttl)
	return nil
}

func (m *memoryCache) delete(key string) error {
	m.c.Delete(key)
	return nil
}

func (m *memoryCache) clear(prefix string) error {
	if prefix == "" {
		m.c.Clear()
		return nil
	}
	m.c.DeleteKeysByPattern(prefix + "*")
	return nil
}
