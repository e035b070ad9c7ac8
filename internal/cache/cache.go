// internal/cache/cache.go
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable so tests can control expiry.
type Clock func() time.Time

// TTL holds a single value with a time-based expiry. The value is replaced
// wholesale on refresh, never mutated in place, so stale reads are safe.
type TTL[T any] struct {
	mu          sync.RWMutex
	value       T
	set         bool
	refreshedAt time.Time
	ttl         time.Duration
	now         Clock
}

// NewTTL creates a cache with the given time-to-live.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Meant for tests.
func (c *TTL[T]) WithClock(now Clock) *TTL[T] {
	c.now = now
	return c
}

// Get returns the cached value if it was set and has not expired.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set || c.now().Sub(c.refreshedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Stale returns the last stored value regardless of expiry. Used to keep
// serving the last good payload when a refresh fails.
func (c *TTL[T]) Stale() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Put stores a fresh value and resets the expiry window.
func (c *TTL[T]) Put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	c.set = true
	c.refreshedAt = c.now()
}
