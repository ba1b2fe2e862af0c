package ratelimiter

import (
	"testing"
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
)

func TestFixedWindowRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{
		Enabled:              true,
		RequestsPerTimeFrame: 2,
		TimeFrame:            time.Minute,
	}, nil)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retry := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request in the window should be rejected")
	}
	if retry != time.Minute {
		t.Errorf("want retry after 1m, got %v", retry)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other keys have their own window")
	}

	now = now.Add(time.Minute)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("a new window should allow requests again")
	}
}

func TestDisabledRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{Enabled: false, RequestsPerTimeFrame: 1, TimeFrame: time.Minute}, nil)
	for i := 0; i < 5; i++ {
		if ok, _ := rl.Allow("k"); !ok {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}
