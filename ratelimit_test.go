package main

import (
	"net/http"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("denies past the limit", func(t *testing.T) {
		rl := newRateLimiter(3, time.Hour)
		for i := 0; i < 3; i++ {
			if !rl.allow("1.2.3.4") {
				t.Fatalf("request %d unexpectedly denied", i+1)
			}
		}
		if rl.allow("1.2.3.4") {
			t.Error("request over the limit was allowed")
		}
	})

	t.Run("addresses are counted independently", func(t *testing.T) {
		rl := newRateLimiter(1, time.Hour)
		if !rl.allow("1.2.3.4") || !rl.allow("5.6.7.8") {
			t.Error("distinct addresses should not share a counter")
		}
	})

	t.Run("window expiry resets the counters", func(t *testing.T) {
		rl := newRateLimiter(1, time.Millisecond)
		if !rl.allow("1.2.3.4") {
			t.Fatal("first request denied")
		}
		time.Sleep(5 * time.Millisecond)
		if !rl.allow("1.2.3.4") {
			t.Error("request after window expiry denied")
		}
	})
}

func TestForgotPasswordRateLimit(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()

	for i := 0; i < 3; i++ {
		rr := doJSON(r, "POST", "/api/forgot-password", map[string]string{"email": "ghost@x.com"}, nil)
		if rr.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d throttled too early", i+1)
		}
	}
	rr := doJSON(r, "POST", "/api/forgot-password", map[string]string{"email": "ghost@x.com"}, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("4th request: got status %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
}
