// Package lru provides a fixed-capacity cache with least-recently-used
// eviction.
package lru

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity map which evicts the least recently used entry
// when an insertion would exceed its capacity.
// It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu sync.Mutex
	// m maps keys to their elements in order.
	m map[K]*list.Element
	// order holds entries from most recently used at the front to least
	// recently used at the back.
	order *list.List
	cap   int
	stats Stats
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// Stats is a snapshot of cache usage counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a cache holding at most capacity entries.
// Panics if capacity is less than 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		panic("lru: capacity must be positive")
	}
	return &Cache[K, V]{
		m:     make(map[K]*list.Element, capacity),
		order: list.New(),
		cap:   capacity,
	}
}

// Get returns the value for a key and marks it most recently used.
// A miss does not change the order of other entries.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.order.MoveToFront(e)
	return e.Value.(*entry[K, V]).val, true
}

// Put sets the value for a key and marks it most recently used.
// If the key is new and the cache is full, the least recently used entry is
// evicted first.
func (c *Cache[K, V]) Put(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[key]; ok {
		e.Value.(*entry[K, V]).val = val
		c.order.MoveToFront(e)
		return
	}
	if len(c.m) >= c.cap {
		c.evict()
	}
	c.m[key] = c.order.PushFront(&entry[K, V]{key: key, val: val})
}

// LoadOrNew returns the value for a key if present, marking it most recently
// used. Otherwise, it stores and returns the result of calling mk, evicting
// as Put does. mk is called with the cache locked, so it must not use the
// cache.
func (c *Cache[K, V]) LoadOrNew(key K, mk func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[key]; ok {
		c.stats.Hits++
		c.order.MoveToFront(e)
		return e.Value.(*entry[K, V]).val, true
	}
	c.stats.Misses++
	if len(c.m) >= c.cap {
		c.evict()
	}
	v := mk()
	c.m[key] = c.order.PushFront(&entry[K, V]{key: key, val: v})
	return v, false
}

// evict removes the least recently used entry. c.mu must be held.
func (c *Cache[K, V]) evict() {
	e := c.order.Back()
	if e == nil {
		return
	}
	c.order.Remove(e)
	delete(c.m, e.Value.(*entry[K, V]).key)
	c.stats.Evictions++
}

// Remove deletes a key, returning the value it held.
// It does not count as a hit or a miss.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.Remove(e)
	delete(c.m, key)
	return e.Value.(*entry[K, V]).val, true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap returns the capacity the cache was created with.
func (c *Cache[K, V]) Cap() int {
	return c.cap
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
