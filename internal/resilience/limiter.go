package resilience

import (
	"sync"
	"time"
)

// RateLimiter — лимитер с фиксированным окном: не более limit разрешений
// на окно window. limit <= 0 отключает ограничение.
type RateLimiter struct {
	mu sync.Mutex

	limit  int
	window time.Duration

	windowStart time.Time
	used        int
}

// NewRateLimiter создаёт лимитер; первый вызов открывает окно.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Second
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// Allow отдаёт permit текущего окна или отказывает немедленно.
func (rl *RateLimiter) Allow() bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if rl.windowStart.IsZero() || now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		rl.used = 0
	}
	if rl.used >= rl.limit {
		return false
	}
	rl.used++
	return true
}
