package reliability

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrWaitTimeout is returned when WaitForToken gives up before a token
// becomes available.
var ErrWaitTimeout = errors.New("timed out waiting for rate limit token")

const waitPollInterval = 100 * time.Millisecond

// RateLimiter is a token bucket. The bucket starts full, refills
// continuously at refillRate tokens per second, and never exceeds its
// capacity.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a bucket holding maxTokens, refilling at refillRate
// tokens per second. A background ticker tops the bucket up once a second so
// idle limiters stay current.
func NewRateLimiter(maxTokens, refillRate float64) *RateLimiter {
	if maxTokens <= 0 {
		maxTokens = 1
	}

	if refillRate <= 0 {
		refillRate = maxTokens / 60
	}

	l := &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		ticker:     time.NewTicker(1 * time.Second),
		done:       make(chan struct{}),
	}

	go l.refillLoop()

	return l
}

// PerMinute builds a limiter sized for a requests-per-minute budget.
func PerMinute(rpm int) *RateLimiter {
	if rpm <= 0 {
		rpm = 1
	}

	return NewRateLimiter(float64(rpm), float64(rpm)/60)
}

func (l *RateLimiter) refillLoop() {
	for {
		select {
		case <-l.ticker.C:
			l.mu.Lock()
			l.refill()
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// refill credits tokens for the time elapsed since the last refill. Caller
// must hold l.mu.
func (l *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now

	l.tokens += elapsed * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
}

// TryConsume takes count tokens if available, reporting whether it did.
func (l *RateLimiter) TryConsume(count float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= count {
		l.tokens -= count
		return true
	}

	return false
}

// WaitForToken blocks until count tokens can be consumed, polling the bucket
// every 100ms. It fails with ErrWaitTimeout after timeout, or with the
// context error if ctx ends first.
func (l *RateLimiter) WaitForToken(ctx context.Context, count float64, timeout time.Duration) error {
	if l.TryConsume(count) {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	poll := time.NewTicker(waitPollInterval)
	defer poll.Stop()

	for {
		select {
		case <-poll.C:
			if l.TryConsume(count) {
				return nil
			}
		case <-deadline.C:
			return ErrWaitTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// AvailableTokens reports the current token count after refilling.
func (l *RateLimiter) AvailableTokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	return l.tokens
}

// Reset fills the bucket back to capacity.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = l.maxTokens
	l.lastRefill = time.Now()
}

// Stop ends the background refill goroutine. The limiter remains usable,
// refilling lazily on access.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.ticker.Stop()
	})
}

// LimiterManager keeps one limiter per key, typically an API config ID.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
}

func NewLimiterManager() *LimiterManager {
	return &LimiterManager{limiters: make(map[string]*RateLimiter)}
}

// Get returns the limiter for key, creating one sized for rpm requests per
// minute on first use.
func (m *LimiterManager) Get(key string, rpm int) *RateLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, ok := m.limiters[key]; ok {
		return limiter
	}

	limiter := PerMinute(rpm)
	m.limiters[key] = limiter

	return limiter
}

// Remove stops and discards the limiter for key, if present.
func (m *LimiterManager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, ok := m.limiters[key]; ok {
		limiter.Stop()
		delete(m.limiters, key)
	}
}

// Clear stops and discards every limiter.
func (m *LimiterManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, limiter := range m.limiters {
		limiter.Stop()
		delete(m.limiters, key)
	}
}
