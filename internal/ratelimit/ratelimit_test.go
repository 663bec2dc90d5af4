package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmartell/datenight/backend/internal/ratelimit"
)

// fakeClock is a hand-advanced clock so window expiry is deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestAllow_denyOverLimit verifies the (N+1)-th call within the window is
// denied with remaining=0 and an unchanged reset time.
func TestAllow_denyOverLimit(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewWithClock(ratelimit.Config{Window: 15 * time.Minute, MaxRequests: 10}, clock.Now)

	var reset time.Time
	for i := 0; i < 10; i++ {
		d := l.Allow("1.2.3.4")
		require.True(t, d.Allowed, "call %d should be allowed", i+1)
		assert.Equal(t, 9-i, d.Remaining)
		if i == 0 {
			reset = d.ResetTime
		}
	}

	d := l.Allow("1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, reset, d.ResetTime, "denial must not move the reset time")
	assert.Positive(t, d.RetryAfter(clock.Now()))
}

// TestAllow_freshWindowAfterReset verifies a call after resetTime starts a
// new full window.
func TestAllow_freshWindowAfterReset(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewWithClock(ratelimit.Config{Window: time.Minute, MaxRequests: 2}, clock.Now)

	l.Allow("k")
	l.Allow("k")
	require.False(t, l.Allow("k").Allowed)

	clock.Advance(time.Minute)

	d := l.Allow("k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetTime)
}

// TestAllow_keysAreIndependent verifies one key's exhaustion never affects
// another key.
func TestAllow_keysAreIndependent(t *testing.T) {
	l := ratelimit.New(ratelimit.Config{Window: time.Minute, MaxRequests: 1})

	require.True(t, l.Allow("a").Allowed)
	require.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
}

// TestAllow_concurrent verifies the check-and-increment is atomic: with N
// slots and many parallel callers, exactly N succeed.
func TestAllow_concurrent(t *testing.T) {
	l := ratelimit.New(ratelimit.Config{Window: time.Minute, MaxRequests: 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

// TestSweep_removesOnlyExpired verifies the janitor pass drops expired
// entries and keeps live ones.
func TestSweep_removesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	l := ratelimit.NewWithClock(ratelimit.Config{Window: time.Minute, MaxRequests: 5}, clock.Now)

	l.Allow("old")
	clock.Advance(90 * time.Second)
	l.Allow("fresh")
	require.Equal(t, 2, l.Size())

	l.Sweep()

	assert.Equal(t, 1, l.Size())
	// The swept key simply starts a fresh window on next touch.
	d := l.Allow("old")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

// TestDecision_retryAfterFloor verifies Retry-After never goes below one
// second even when the reset is imminent.
func TestDecision_retryAfterFloor(t *testing.T) {
	now := time.Now()
	d := ratelimit.Decision{ResetTime: now.Add(100 * time.Millisecond)}
	assert.Equal(t, 1, d.RetryAfter(now))
}
