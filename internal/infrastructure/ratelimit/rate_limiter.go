package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key, for example a user id or a
// client IP, all sharing the same rate and burst.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
}

// NewRateLimiter allows perWindow events per window with a burst of the same size.
func NewRateLimiter(perWindow int, window time.Duration) *RateLimiter {
	if perWindow <= 0 {
		perWindow = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Every(window / time.Duration(perWindow)),
		burst:    perWindow,
		idleTTL:  3 * window,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Allow consumes a token for key. When none is available it reports how
// long until the next one.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	r := rl.get(key).Reserve()
	if !r.OK() {
		return false, 0
	}
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than three windows.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
}

// Size returns the number of tracked keys.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// StartCleanupRoutine runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
