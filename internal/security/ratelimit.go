package security

import (
	"sync"
	"time"
)

// RateLimiter implements a simple per-client token bucket
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.RWMutex
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing rate requests per window
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanupVisitors()
	return rl
}

// Allow checks if a request from a client key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{
			tokens:     rl.rate,
			lastRefill: time.Now(),
		}
		rl.visitors[key] = v
	}
	rl.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.Sub(v.lastRefill) >= rl.window {
		v.tokens = rl.rate
		v.lastRefill = now
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}

	return false
}

// cleanupVisitors drops idle entries so the map cannot grow unbounded
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, v := range rl.visitors {
			v.mu.Lock()
			idle := now.Sub(v.lastRefill) > rl.window*2
			v.mu.Unlock()
			if idle {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}
