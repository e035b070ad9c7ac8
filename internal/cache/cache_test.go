package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLGetEmpty(t *testing.T) {
	c := NewTTL[int](time.Minute)

	_, ok := c.Get()
	assert.False(t, ok)
	_, ok = c.Stale()
	assert.False(t, ok)
}

func TestTTLGetWithinWindow(t *testing.T) {
	now := time.Now()
	c := NewTTL[string](time.Minute).WithClock(func() time.Time { return now })

	c.Put("hello")

	now = now.Add(59 * time.Second)
	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestTTLExpiry(t *testing.T) {
	now := time.Now()
	c := NewTTL[string](time.Minute).WithClock(func() time.Time { return now })

	c.Put("hello")
	now = now.Add(time.Minute)

	_, ok := c.Get()
	assert.False(t, ok, "value at exactly ttl is expired")

	// Просроченное значение остаётся доступным как stale.
	v, ok := c.Stale()
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestTTLPutResetsWindow(t *testing.T) {
	now := time.Now()
	c := NewTTL[int](time.Minute).WithClock(func() time.Time { return now })

	c.Put(1)
	now = now.Add(50 * time.Second)
	c.Put(2)
	now = now.Add(50 * time.Second)

	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
