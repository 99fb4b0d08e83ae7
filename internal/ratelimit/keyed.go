package ratelimit

import (
	"sync"
	"time"
)

const defaultCleanupPeriod = 5 * time.Minute

// DropRecorder receives one call per rejected request.
// *metrics.Metrics satisfies it.
type DropRecorder interface {
	RecordRateLimiterDrop(limiterType string)
}

// KeyedConfig configures a KeyedLimiter instance.
type KeyedConfig struct {
	// Name labels drops in metrics ("user", "llm").
	Name string

	Burst      float64 // Maximum tokens per key
	RefillRate float64 // Tokens refilled per second

	// CleanupPeriod is how often idle keys are forgotten (default 5m).
	CleanupPeriod time.Duration

	Recorder DropRecorder // optional
}

// KeyedLimiter keeps one token bucket per key (client IP, LINE user ID).
// Buckets that have refilled completely are dropped by a background sweep.
type KeyedLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*Limiter
	cfg      KeyedConfig
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter starts the cleanup goroutine; call Stop to end it.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = defaultCleanupPeriod
	}
	kl := &KeyedLimiter{
		buckets: make(map[string]*Limiter),
		cfg:     cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// Allow consumes a token for key. An empty key is never limited.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	if kl.bucket(key).Allow() {
		return true
	}
	if kl.cfg.Recorder != nil {
		kl.cfg.Recorder.RecordRateLimiterDrop(kl.cfg.Name)
	}
	return false
}

func (kl *KeyedLimiter) bucket(key string) *Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	b, ok := kl.buckets[key]
	if !ok {
		b = newWithClock(kl.cfg.Burst, kl.cfg.RefillRate, kl.now)
		kl.buckets[key] = b
	}
	return b
}

// Available returns the tokens left for key; unknown keys have a full bucket.
func (kl *KeyedLimiter) Available(key string) float64 {
	kl.mu.Lock()
	b, ok := kl.buckets[key]
	kl.mu.Unlock()
	if !ok {
		return kl.cfg.Burst
	}
	return b.Available()
}

// ActiveCount returns the number of tracked keys.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.buckets)
}

// sweep forgets idle keys.
func (kl *KeyedLimiter) sweep() {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, b := range kl.buckets {
		if b.IsFull() {
			delete(kl.buckets, key)
		}
	}
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.sweep()
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stopCh) })
}
