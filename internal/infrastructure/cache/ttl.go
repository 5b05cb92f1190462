// Package cache keeps short-lived copies of rarely changing tenant configuration.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a size-bounded LRU whose entries also expire after a fixed time.
type TTL[V any] struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewTTL creates a cache holding up to size entries for ttl each.
func NewTTL[V any](size int, ttl time.Duration) (*TTL[V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &TTL[V]{lru: c, ttl: ttl, now: time.Now}, nil
}

// Get returns a live entry.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	raw, ok := c.lru.Get(key)
	if ok {
		e := raw.(entry[V])
		if c.now().Before(e.expiresAt) {
			c.count(true)
			return e.value, true
		}
		c.lru.Remove(key)
	}
	c.count(false)
	return zero, false
}

// Add stores value under key.
func (c *TTL[V]) Add(key string, value V) {
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Remove drops key.
func (c *TTL[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Stats returns hit and miss counters.
func (c *TTL[V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *TTL[V]) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}
