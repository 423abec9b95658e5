// Package cache holds the fare search caches
package cache

import (
	"sync"
	"time"
)

// sweepEvery bounds how often a write scans for expired keys
const sweepEvery = time.Minute

type item[T any] struct {
	value     T
	expiresAt time.Time
}

func (i item[T]) expired(now time.Time) bool {
	return !now.Before(i.expiresAt)
}

// Cache is an in-process TTL cache keyed by string. When dup is set,
// values are copied on write and on read so callers never share state.
type Cache[T any] struct {
	mu        sync.Mutex
	items     map[string]item[T]
	dup       func(T) T
	now       func() time.Time
	lastSweep time.Time
}

// New creates an empty cache
func New[T any](dup func(T) T) *Cache[T] {
	return &Cache[T]{
		items: make(map[string]item[T]),
		dup:   dup,
		now:   time.Now,
	}
}

// Get returns the value stored under key unless it has expired
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	it, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if it.expired(c.now()) {
		delete(c.items, key)
		return zero, false
	}
	return c.copyOf(it.value), true
}

// Set stores value under key for ttl. Expired keys are swept at most once per sweepEvery.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= sweepEvery {
		for k, it := range c.items {
			if it.expired(now) {
				delete(c.items, k)
			}
		}
		c.lastSweep = now
	}

	c.items[key] = item[T]{value: c.copyOf(value), expiresAt: now.Add(ttl)}
}

// Len returns the number of stored keys, expired or not
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[T]) copyOf(value T) T {
	if c.dup == nil {
		return value
	}
	return c.dup(value)
}
