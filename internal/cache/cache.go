// Package cache provides an in-memory TTL cache with LRU eviction and ETag
// support, plus a Redis-backed implementation of the same Store interface.
package cache

import (
	"container/list"
	"context"
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// Store is implemented by the in-memory and Redis caches.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, etag string, ok bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) string
	Purge(ctx context.Context) error
	Stats() map[string]interface{}
}

type entry struct {
	key       string
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache bounded to maxSize entries.
// Reads refresh an entry's recency; a full cache drops the least recently
// used entry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	enabled bool
	now     func() time.Time
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
// maxSize <= 0 means unbounded.
func New(enabled bool, maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		enabled: enabled,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(_ context.Context, key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, exists := c.entries[key]
	if !exists {
		return nil, "", false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		return nil, "", false
	}
	c.order.MoveToFront(el)
	return e.data, e.etag, true
}

// Set stores a value with a TTL.
func (c *Cache) Set(_ context.Context, key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{key: key, data: data, etag: etag, expiresAt: c.now().Add(ttl)}
	if el, exists := c.entries[key]; exists {
		el.Value = e
		c.order.MoveToFront(el)
		return etag
	}
	if c.maxSize > 0 && c.order.Len() >= c.maxSize {
		c.removeElement(c.order.Back())
	}
	c.entries[key] = c.order.PushFront(e)
	return etag
}

// Purge drops every entry.
func (c *Cache) Purge(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := 0
	now := c.now()
	for _, el := range c.entries {
		if now.Before(el.Value.(*entry).expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"backend":      "memory",
		"enabled":      c.enabled,
		"max_size":     c.maxSize,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// Evict removes expired entries and returns how many were dropped. It is
// driven by the maintenance ticker.
func (c *Cache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for _, el := range c.entries {
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
			removed++
		}
	}
	return removed
}

func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.entries, e.key)
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	// Simple comparison; handles the common single-etag case
	return ifNoneMatch == etag
}
