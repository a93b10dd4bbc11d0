package middleware

import (
	"testing"
	"time"
)

func TestAllowEnforcesBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1.0,
		BurstSize:         3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d within burst was denied", i)
		}
	}
	if rl.Allow("client-a") {
		t.Fatal("request over burst was allowed")
	}
}

func TestClientsAreLimitedIndependently(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1.0,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("client-a") {
		t.Fatal("first request for client-a denied")
	}
	if rl.Allow("client-a") {
		t.Fatal("client-a exceeded its burst")
	}
	if !rl.Allow("client-b") {
		t.Fatal("client-b throttled by client-a's usage")
	}
}

func TestCleanupDropsIdleLimiters(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1.0,
		BurstSize:         1,
		CleanupInterval:   10 * time.Millisecond,
	})
	defer rl.Stop()

	rl.Allow("client-a")

	time.Sleep(30 * time.Millisecond)
	rl.mu.Lock()
	remaining := len(rl.limiters)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Errorf("%d limiters left after cleanup", remaining)
	}
}

func TestSocketActionLimiter(t *testing.T) {
	sl := NewSocketActionLimiter()
	defer sl.Stop()

	for i := 0; i < 10; i++ {
		if !sl.AllowAction("conn-1") {
			t.Fatalf("action %d within burst was denied", i)
		}
	}
	if sl.AllowAction("conn-1") {
		t.Fatal("action over burst was allowed")
	}
}
