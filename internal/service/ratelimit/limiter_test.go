package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func newTestLimiter(capacity int, perSec float64) (*Limiter, *time.Time) {
	l := New(capacity, perSec)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowBurstThenRefill(t *testing.T) {
	l, now := newTestLimiter(2, 0.5)

	if !l.Allow("s") || !l.Allow("s") {
		t.Fatalf("burst of 2 must be allowed")
	}
	if l.Allow("s") {
		t.Fatalf("third call must be refused")
	}

	*now = now.Add(2 * time.Second)
	if !l.Allow("s") {
		t.Fatalf("one token must have refilled")
	}
	if l.Allow("s") {
		t.Fatalf("only one token refilled")
	}
}

func TestAllowKeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 0.1)

	if !l.Allow("a") {
		t.Fatalf("a first")
	}
	if !l.Allow("b") {
		t.Fatalf("b must have its own bucket")
	}
	if l.Allow("a") {
		t.Fatalf("a exhausted")
	}
}

func TestForget(t *testing.T) {
	l, _ := newTestLimiter(1, 0.1)
	l.Allow("a")
	l.Forget("a")
	if !l.Allow("a") {
		t.Fatalf("forgotten key starts full")
	}
}

func TestDisabled(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("disabled limiter must allow")
		}
	}
	var nilLimiter *Limiter
	if !nilLimiter.Allow("a") {
		t.Fatalf("nil limiter must allow")
	}
}

func TestSweepDropsFullBuckets(t *testing.T) {
	l, now := newTestLimiter(1, 1)
	for i := 0; i < sweepThreshold; i++ {
		l.Allow(fmt.Sprintf("k%d", i))
	}
	*now = now.Add(time.Minute)
	l.Allow("fresh")

	if n := len(l.m); n != 1 {
		t.Fatalf("expected only the fresh bucket after sweep, got %d", n)
	}
}
