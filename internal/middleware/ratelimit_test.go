package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterExhaustsAndRefills(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)
	defer rl.Stop()

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first requests within capacity should pass")
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over capacity should be rejected")
	}

	// Another client has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("separate IP should not share the bucket")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.allow("10.0.0.1") {
		t.Error("bucket should refill after the interval")
	}
}

func TestRateLimiterStop(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()

	// Stopping the reaper must not affect request admission.
	if !rl.allow("10.0.0.3") {
		t.Error("allow should still work after Stop")
	}
	if rl.allow("10.0.0.3") {
		t.Error("capacity should still be enforced after Stop")
	}
}
