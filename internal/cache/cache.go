// Package cache holds extracted attachment text in an in-process ristretto cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a byte-cost bounded TTL cache. A nil *Cache is a valid, always-empty cache.
type Cache struct {
	c   *ristretto.Cache[string, []byte]
	ttl time.Duration
}

// New creates a cache holding at most maxMB megabytes of values, each kept for
// ttl. maxMB <= 0 disables caching and returns nil.
func New(maxMB int64, ttl time.Duration) (*Cache, error) {
	if maxMB <= 0 {
		return nil, nil
	}
	maxCost := maxMB << 20
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost / 1024 * 10, // ~10x expected items of ~1KB
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.c.Get(key)
}

// Set stores value under key. Admission is asynchronous and may be refused
// by the cache policy.
func (c *Cache) Set(key string, value []byte) {
	if c == nil {
		return
	}
	c.c.SetWithTTL(key, value, int64(len(value)), c.ttl)
}

// Wait blocks until pending writes are applied.
func (c *Cache) Wait() {
	if c == nil {
		return
	}
	c.c.Wait()
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.c.Close()
}

// Key derives a stable cache key from its parts.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
