package ratelimit

import (
	"sync"
	"time"
)

// sweepThreshold is the bucket count above which full buckets are dropped.
const sweepThreshold = 1024

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. All keys share capacity and refill rate.
type Limiter struct {
	mu         sync.Mutex
	m          map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	now        func() time.Time
}

// New creates a limiter. A capacity <= 0 disables limiting.
func New(capacity int, refillPerSec float64) *Limiter {
	return &Limiter{
		m:          make(map[string]*bucket),
		capacity:   float64(capacity),
		refillRate: refillPerSec,
		now:        time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.capacity <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.m[key]
	if !ok {
		if len(l.m) >= sweepThreshold {
			l.sweepLocked(now)
		}
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	l.refill(b, now)

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget drops the bucket of key.
func (l *Limiter) Forget(key string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.m, key)
	l.mu.Unlock()
}

func (l *Limiter) refill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
}

// sweepLocked removes buckets that have refilled completely; they behave like new ones.
func (l *Limiter) sweepLocked(now time.Time) {
	for k, b := range l.m {
		l.refill(b, now)
		if b.tokens >= l.capacity {
			delete(l.m, k)
		}
	}
}
