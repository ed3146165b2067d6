package http

import "testing"

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0)
	for range 1000 {
		if !rl.allow() {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}

func TestRateLimiterBurst(t *testing.T) {
	rl := newRateLimiter(3)
	for i := range 3 {
		if !rl.allow() {
			t.Fatalf("event %d should be allowed within burst", i)
		}
	}
	if rl.allow() {
		t.Fatal("fourth event in the same instant should be limited")
	}
}
