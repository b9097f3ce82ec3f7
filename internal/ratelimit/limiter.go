// Package ratelimit provides a fixed-window rate limiter for sensitive
// administrative actions such as matricula reveals.
//
// The limiter is an explicitly constructed component injected where needed,
// never a package-level global, so each test can build a fresh instance.
// Fixed windows are bursty at window boundaries (a caller can spend a full
// window's budget right before the edge and another right after); that is
// acceptable for abuse deterrence, which is all this limiter provides. It
// is advisory, not a security boundary.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// Result reports the outcome of a consumption attempt.
type Result struct {
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying, at
	// least one second. Zero when Allowed.
	RetryAfter time.Duration
}

// bucket tracks the remaining tokens for one composite key within the
// current window.
type bucket struct {
	tokens     int
	lastRefill time.Time
}

// Limiter is a fixed-window counter keyed by an opaque composite string.
// Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLimiter creates a new Limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Key builds the composite bucket key for an action performed by an actor on
// a subject from an IP. Every dimension participates so that, for example,
// one administrator hammering one student from one machine does not exhaust
// another administrator's budget.
func Key(action, actor, subject, ip string) string {
	return strings.Join([]string{action, actor, subject, ip}, "|")
}

// Consume attempts to take one token from the key's bucket.
//
// On first use, or when the window has elapsed, the bucket refills to limit.
// Each allowed call decrements the count; once it reaches zero, calls are
// rejected until the window resets, with RetryAfter reporting the remaining
// wait rounded up to whole seconds (minimum one).
func (l *Limiter) Consume(key string, limit int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.lastRefill) >= window {
		b = &bucket{tokens: limit, lastRefill: now}
		l.buckets[key] = b
	}

	if b.tokens <= 0 {
		elapsed := now.Sub(b.lastRefill)
		retryAfter := time.Duration(math.Ceil((window - elapsed).Seconds())) * time.Second
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return Result{Allowed: false, RetryAfter: retryAfter}
	}

	b.tokens--
	return Result{Allowed: true}
}

// CleanupStale periodically removes buckets whose window expired more than
// the interval ago, preventing unbounded growth of the key space. Runs until
// the context is cancelled; start it once at process startup.
func (l *Limiter) CleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := l.now().Add(-interval)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastRefill.Before(threshold) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RetryAfterSeconds renders a retry delay for HTTP headers and messages.
func (r Result) RetryAfterSeconds() int {
	return int(r.RetryAfter / time.Second)
}

// String implements fmt.Stringer for log lines.
func (r Result) String() string {
	if r.Allowed {
		return "allowed"
	}
	return fmt.Sprintf("rejected, retry after %ds", r.RetryAfterSeconds())
}
