// Package ratelimit implements an in-memory fixed-window request counter.
//
// Each key (a client IP, or a single shared key for the global limit) gets a
// counter that fully resets when its window elapses. Fixed windows permit
// bursts of up to twice the limit across a window boundary; at this system's
// scale that is an accepted tradeoff over a sliding window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config sets the window size and the number of requests allowed per window.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	// ResetTime is when the key's current window ends. On a denial the
	// caller derives Retry-After from it.
	ResetTime time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1,
// suitable for a Retry-After header.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int(d.ResetTime.Sub(now).Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return secs
}

type entry struct {
	count     int
	resetTime time.Time
}

// Limiter is a fixed-window counter over an in-memory key map.
// Construct one per scope (per-client, global) with New; instances are safe
// for concurrent use. Expired entries self-heal on next touch, so the
// janitor sweep only bounds memory.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	cfg     Config
	now     func() time.Time
}

// New constructs a Limiter using the wall clock.
func New(cfg Config) *Limiter {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock constructs a Limiter with an injected clock source for tests.
func NewWithClock(cfg Config, now func() time.Time) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		cfg:     cfg,
		now:     now,
	}
}

// Allow records one request against key and reports whether it fits in the
// current window. The check and increment happen under one lock, so
// concurrent callers never exceed MaxRequests within a window.
func (l *Limiter) Allow(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok || !now.Before(ent.resetTime) {
		// First touch, or the previous window has elapsed: start fresh.
		ent = &entry{count: 1, resetTime: now.Add(l.cfg.Window)}
		l.entries[key] = ent
		return Decision{Allowed: true, Remaining: l.cfg.MaxRequests - 1, ResetTime: ent.resetTime}
	}

	if ent.count >= l.cfg.MaxRequests {
		return Decision{Allowed: false, Remaining: 0, ResetTime: ent.resetTime}
	}

	ent.count++
	return Decision{Allowed: true, Remaining: l.cfg.MaxRequests - ent.count, ResetTime: ent.resetTime}
}

// Max returns the configured per-window request budget.
func (l *Limiter) Max() int { return l.cfg.MaxRequests }

// Sweep removes entries whose window has already expired.
func (l *Limiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if !now.Before(ent.resetTime) {
			delete(l.entries, k)
		}
	}
}

// Size returns the number of live entries, expired or not.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor runs Sweep every interval until ctx is cancelled.
func (l *Limiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}
