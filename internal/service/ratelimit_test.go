package service_test

import (
	"testing"

	"github.com/seclearn/trainquery/internal/service"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := service.NewTokenBucket(1, 3) // rate=1/s, capacity=3
	defer tb.Close()

	// Should allow 3 requests immediately (full bucket).
	for i := 0; i < 3; i++ {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	// 4th request should be denied (bucket empty).
	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentClientsAreIndependent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1) // capacity=1
	defer tb.Close()

	if !tb.Allow("10.0.0.1") {
		t.Fatal("first client's first request should be allowed")
	}
	if tb.Allow("10.0.0.1") {
		t.Fatal("first client's second request should be denied")
	}

	// The second client has its own bucket.
	if !tb.Allow("10.0.0.2") {
		t.Fatal("second client's first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_NewKeyStartsFull(t *testing.T) {
	tb := service.NewTokenBucket(10, 5)
	defer tb.Close()

	for i := 0; i < 5; i++ {
		if !tb.Allow("new-key") {
			t.Fatalf("new key request %d should be allowed (starts full)", i+1)
		}
	}
	if tb.Allow("new-key") {
		t.Fatal("6th request should be denied")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := service.NewTokenBucket(0, 2) // never refills
	defer tb.Close()

	if !tb.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if !tb.Allow("k") {
		t.Fatal("second request should be allowed")
	}
	if tb.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

func TestNewRateLimiter(t *testing.T) {
	if service.NewRateLimiter(0) != nil {
		t.Fatal("zero per-minute limit must disable limiting")
	}

	tb := service.NewRateLimiter(5)
	if tb == nil {
		t.Fatal("expected a limiter")
	}
	defer tb.Close()
	for i := 0; i < 5; i++ {
		if !tb.Allow("client") {
			t.Fatalf("burst request %d should be allowed", i+1)
		}
	}
	if tb.Allow("client") {
		t.Fatal("request beyond the per-minute burst should be denied")
	}
}
