package chat

import (
	"sync"
	"time"
)

// rateLimiter gates chat messages to one per cooldown window per connection.
// The check and the timestamp update are a single step under the mutex so a
// burst from one connection can never pass twice.
type rateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[string]time.Time
}

func newRateLimiter(cooldown time.Duration) *rateLimiter {
	if cooldown <= 0 {
		cooldown = time.Second
	}
	return &rateLimiter{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
	}
}

// allow reports whether the connection may send at now and, if so, stamps
// now as its last send time. A connection that never sent is always allowed.
func (rl *rateLimiter) allow(connID string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.last[connID]) < rl.cooldown {
		return false
	}
	rl.last[connID] = now
	return true
}

// forget drops the connection's entry on disconnect.
func (rl *rateLimiter) forget(connID string) {
	rl.mu.Lock()
	delete(rl.last, connID)
	rl.mu.Unlock()
}
