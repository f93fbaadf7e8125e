package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

func newTestLimiter(t *testing.T, rate float64, burst int) (*MemoryLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryLimiter(rate, burst)
	m.now = clock.Now
	t.Cleanup(func() { require.NoError(t, m.Close()) })
	return m, clock
}

func allowN(t *testing.T, m *MemoryLimiter, key string, n int) int {
	t.Helper()
	allowed := 0
	for i := 0; i < n; i++ {
		ok, err := m.Allow(context.Background(), key)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestMemoryLimiterBurstThenDeny(t *testing.T) {
	m, _ := newTestLimiter(t, 10, 3)
	assert.Equal(t, 3, allowN(t, m, "peer", 5))
}

func TestMemoryLimiterTokenRefill(t *testing.T) {
	m, clock := newTestLimiter(t, 10, 2)
	assert.Equal(t, 2, allowN(t, m, "peer", 3))

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, allowN(t, m, "peer", 2))
}

func TestMemoryLimiterTokensCapAtBurst(t *testing.T) {
	m, clock := newTestLimiter(t, 1000, 3)
	allowN(t, m, "peer", 1)

	clock.Advance(time.Hour)
	assert.Equal(t, 3, allowN(t, m, "peer", 4))
}

func TestMemoryLimiterIndependentKeys(t *testing.T) {
	m, _ := newTestLimiter(t, 10, 1)
	assert.Equal(t, 1, allowN(t, m, "a", 2))
	assert.Equal(t, 1, allowN(t, m, "b", 2))
	assert.Equal(t, 2, m.Len())
}

func TestMemoryLimiterConcurrent(t *testing.T) {
	m, _ := newTestLimiter(t, 100, 50)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if ok, _ := m.Allow(context.Background(), "shared"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	// The clock is frozen, so exactly the burst gets through.
	assert.Equal(t, int64(50), allowed.Load())
}

func TestMemoryLimiterEvictStale(t *testing.T) {
	m, clock := newTestLimiter(t, 10, 5)
	allowN(t, m, "stale", 1)
	clock.Advance(5 * time.Minute)
	allowN(t, m, "recent", 1)

	clock.Advance(6 * time.Minute)
	m.evictStale()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.NotContains(t, m.buckets, "stale")
	assert.Contains(t, m.buckets, "recent")
}

func TestMemoryLimiterCloseIdempotent(t *testing.T) {
	m := NewMemoryLimiter(10, 5)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNewSelectsImplementation(t *testing.T) {
	l := New(false, 10, 5)
	assert.IsType(t, NoopLimiter{}, l)
	for i := 0; i < 1000; i++ {
		ok, err := l.Allow(context.Background(), "anything")
		require.NoError(t, err)
		require.True(t, ok)
	}

	l = New(true, 10, 5)
	t.Cleanup(func() { _ = l.Close() })
	assert.IsType(t, &MemoryLimiter{}, l)
}
