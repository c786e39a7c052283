package ftsql

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// Cache memoizes compiled SQL by query text. A nil *Cache never hits.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewCache returns a cache holding up to size entries, or nil when size is 0.
func NewCache(size int) *Cache {
	if size <= 0 {
		return nil
	}
	return &Cache{lru: lru.New(size)}
}

// Get returns the SQL cached for query.
func (c *Cache) Get(query string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	v, ok := c.lru.Get(query)
	c.mu.Unlock()
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Add caches sql for query, evicting the least recently used entry when full.
func (c *Cache) Add(query, sql string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lru.Add(query, sql)
	c.mu.Unlock()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
