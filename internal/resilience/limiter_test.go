package resilience

import (
	"testing"
	"time"
)

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("first two calls must be allowed")
	}
	if rl.Allow() {
		t.Fatal("third call in the same window must be rejected")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow() {
		t.Fatal("first call must be allowed")
	}
	if rl.Allow() {
		t.Fatal("second call must be rejected")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow() {
		t.Fatal("call must be allowed in a new window")
	}
}

func TestRateLimiter_Unlimited(t *testing.T) {
	rl := NewRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		if !rl.Allow() {
			t.Fatalf("unlimited limiter rejected call %d", i)
		}
	}
}
