package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	l := newWithClock(3, 0.5, clock.Now)

	for i := range 3 {
		assert.True(t, l.Allow(), "request %d within burst", i)
	}
	assert.False(t, l.Allow(), "burst exhausted")

	clock.Advance(time.Second)
	assert.False(t, l.Allow(), "half a token is not enough")

	clock.Advance(time.Second)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestLimiter_CapsAtBurst(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	l := newWithClock(2, 1, clock.Now)

	assert.True(t, l.Allow())
	clock.Advance(time.Hour)
	assert.InDelta(t, 2, l.Available(), 1e-9)
	assert.True(t, l.IsFull())
}

func TestLimiter_ClockGoingBackwards(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newWithClock(1, 1, func() time.Time { return now })

	assert.True(t, l.Allow())
	now = now.Add(-time.Minute)
	assert.False(t, l.Allow(), "a clock step back must not mint tokens")
	assert.InDelta(t, 0, l.Available(), 1e-9)
}

func TestPerHour(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 20.0/3600, PerHour(20), 1e-12)
}

func TestLimiter_Concurrent(t *testing.T) {
	t.Parallel()
	l := New(100, 0.0001)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 200 {
		wg.Go(func() {
			if l.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 100, allowed)
}
