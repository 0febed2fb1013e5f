// Package cache keeps recently rendered charts in memory, keyed by input.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type entry struct {
	body     []byte
	cachedAt time.Time
}

// Cache is a size-bounded, TTL-bounded map safe for concurrent use.
// When full, the oldest entry is evicted first.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	order   []string
	maxSize int
	maxAge  time.Duration
	now     func() time.Time
}

func New(maxSize int, maxAge time.Duration) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		entries: make(map[string]entry, maxSize),
		maxSize: maxSize,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Key derives a cache key from the parts that determine a rendered chart.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Read(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && c.now().Sub(e.cachedAt) > c.maxAge {
		c.remove(key)
		return nil, false
	}
	return e.body, true
}

func (c *Cache) Write(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for len(c.order) >= c.maxSize {
		c.remove(c.order[0])
	}
	c.entries[key] = entry{body: body, cachedAt: c.now()}
	c.order = append(c.order, key)
}

// CachedAt returns when key was stored, or nil if it is absent.
func (c *Cache) CachedAt(key string) *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	t := e.cachedAt
	return &t
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with c.mu held.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
