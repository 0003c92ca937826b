package reliability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_StartsFull(t *testing.T) {
	limiter := NewRateLimiter(5, 1)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.TryConsume(1), "token %d", i)
	}

	assert.False(t, limiter.TryConsume(1))
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	// 100 tokens/second so the refill is observable quickly.
	limiter := NewRateLimiter(10, 100)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		require.True(t, limiter.TryConsume(1))
	}

	require.False(t, limiter.TryConsume(1))

	time.Sleep(50 * time.Millisecond)

	assert.True(t, limiter.TryConsume(1))
}

func TestRateLimiter_NeverExceedsCapacity(t *testing.T) {
	limiter := NewRateLimiter(3, 1000)
	defer limiter.Stop()

	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, limiter.AvailableTokens(), 3.0)
}

func TestRateLimiter_WaitForToken_ImmediateWhenAvailable(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	defer limiter.Stop()

	err := limiter.WaitForToken(context.Background(), 1, time.Second)
	assert.NoError(t, err)
}

func TestRateLimiter_WaitForToken_BlocksUntilRefill(t *testing.T) {
	limiter := NewRateLimiter(1, 20)
	defer limiter.Stop()

	require.True(t, limiter.TryConsume(1))

	start := time.Now()
	err := limiter.WaitForToken(context.Background(), 1, 2*time.Second)

	require.NoError(t, err)
	assert.Greater(t, time.Since(start), 10*time.Millisecond)
}

func TestRateLimiter_WaitForToken_TimesOut(t *testing.T) {
	limiter := NewRateLimiter(1, 0.001)
	defer limiter.Stop()

	require.True(t, limiter.TryConsume(1))

	err := limiter.WaitForToken(context.Background(), 1, 150*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestRateLimiter_WaitForToken_ContextCancelled(t *testing.T) {
	limiter := NewRateLimiter(1, 0.001)
	defer limiter.Stop()

	require.True(t, limiter.TryConsume(1))

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := limiter.WaitForToken(ctx, 1, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter := NewRateLimiter(2, 0.001)
	defer limiter.Stop()

	require.True(t, limiter.TryConsume(2))
	require.False(t, limiter.TryConsume(1))

	limiter.Reset()

	assert.True(t, limiter.TryConsume(2))
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(1, 1)

	limiter.Stop()
	limiter.Stop()

	// Lazy refill still works after Stop.
	assert.True(t, limiter.TryConsume(1))
}

func TestRateLimiter_ConcurrentStop(t *testing.T) {
	limiter := NewRateLimiter(1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			limiter.Stop()
		}()
	}

	wg.Wait()
}

func TestPerMinute(t *testing.T) {
	limiter := PerMinute(60)
	defer limiter.Stop()

	assert.InDelta(t, 60.0, limiter.AvailableTokens(), 0.5)
}

func TestLimiterManager(t *testing.T) {
	manager := NewLimiterManager()
	defer manager.Clear()

	first := manager.Get("cfg-1", 60)
	second := manager.Get("cfg-1", 120)

	// Same key returns the same limiter regardless of the rpm argument.
	assert.Same(t, first, second)

	other := manager.Get("cfg-2", 60)
	assert.NotSame(t, first, other)

	manager.Remove("cfg-1")

	replacement := manager.Get("cfg-1", 60)
	assert.NotSame(t, first, replacement)
}
