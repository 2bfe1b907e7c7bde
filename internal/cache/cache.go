// Package cache caches rendered API responses. By default values are kept in
// memory; UseRedisCache switches to a shared redis instance so that several
// back office instances see the same invalidations.
package cache

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Key prefixes used by the back office
const (
	KeyCatalog  = "catalog"
	KeySettings = "settings"
)

type backend interface {
	get(key string) ([]byte, bool, error)
	set(key string, value []byte, ttl time.Duration) error
	delete(key string) error
	clear(prefix string) error
}

var (
	current     backend = newMemoryCache(defaultMemoryCacheSize)
	disabled    bool
	maxLifetime time.Duration
)

// UseRedisCache switches the cache to the redis instance described by opts
func UseRedisCache(opts *redis.Options) error {
	c, err := newRedisCache(opts)
	if err != nil {
		return err
	}
	replace(c)
	return nil
}

// UseMemoryCache switches the cache to a new in-memory cache holding at most
// maxSize entries
func UseMemoryCache(maxSize int) {
	replace(newMemoryCache(maxSize))
}

func replace(b backend) {
	if m, ok := current.(*memoryCache); ok {
		m.c.StopJanitor()
	}
	current = b
}

// SetDisabled turns caching off or on; a disabled cache never returns hits
func SetDisabled(d bool) {
	disabled = d
}

// SetMaxLifetime caps the lifetime of all cached values; 0 means no cap
func SetMaxLifetime(d time.Duration) {
	maxLifetime = d
}

// Key builds a cache key from the passed parts
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get looks up key and decodes the cached value into target, which must be a
// pointer. It returns false if nothing is cached.
func Get(key string, target any) (bool, error) {
	if disabled {
		return false, nil
	}
	data, found, err := current.get(key)
	if err != nil || !found {
		return false, err
	}
	if err = msgpack.Unmarshal(data, target); err != nil {
		return false, errors.Wrap(err, "cache: could not decode cached value")
	}
	return true, nil
}

// Set caches value under key for ttl
func Set(key string, value any, ttl time.Duration) error {
	if disabled {
		return nil
	}
	if maxLifetime > 0 && (ttl <= 0 || ttl > maxLifetime) {
		ttl = maxLifetime
	}
	data, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache: could not encode value")
	}
	return current.set(key, data, ttl)
}

// Delete removes key from the cache
func Delete(key string) error {
	return current.delete(key)
}

// Clear removes all keys starting with prefix
func Clear(prefix string) error {
	return current.clear(prefix)
}
