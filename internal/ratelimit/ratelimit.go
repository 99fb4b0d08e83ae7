// Package ratelimit provides token bucket rate limiters, alone or keyed by
// client identity.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket safe for concurrent use. It starts full with
// burst tokens and regains rate tokens per second.
type Limiter struct {
	mu    sync.Mutex
	burst float64
	rate  float64
	clock func() time.Time

	tokens  float64
	updated time.Time
}

// New creates a full bucket.
func New(burst, ratePerSecond float64) *Limiter {
	return newWithClock(burst, ratePerSecond, time.Now)
}

// PerHour converts an hourly allowance into a per-second rate.
func PerHour(tokens float64) float64 {
	return tokens / time.Hour.Seconds()
}

func newWithClock(burst, rate float64, clock func() time.Time) *Limiter {
	return &Limiter{burst: burst, rate: rate, clock: clock, tokens: burst, updated: clock()}
}

// level brings the bucket up to date and returns its tokens. mu must be held.
func (l *Limiter) level() float64 {
	now := l.clock()
	if elapsed := now.Sub(l.updated); elapsed > 0 {
		l.tokens = min(l.burst, l.tokens+elapsed.Seconds()*l.rate)
	}
	l.updated = now
	return l.tokens
}

// Allow takes one token when available and never blocks.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level() < 1 {
		return false
	}
	l.tokens--
	return true
}

// Available returns the tokens currently in the bucket.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level()
}

// IsFull reports whether the bucket has refilled completely, which means its
// key has been idle long enough to forget.
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level() >= l.burst
}
