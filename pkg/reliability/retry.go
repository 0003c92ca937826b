// Package reliability provides the retry and rate-limiting primitives the
// generation adapters wrap their outbound calls in.
package reliability

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryOptions controls exponential-backoff retry behavior.
type RetryOptions struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
	}
}

func (o RetryOptions) normalized() RetryOptions {
	n := o
	if n.InitialDelay <= 0 {
		n.InitialDelay = 1 * time.Second
	}

	if n.MaxDelay <= 0 {
		n.MaxDelay = 30 * time.Second
	}

	if n.Multiplier <= 0 {
		n.Multiplier = 2
	}

	if n.MaxRetries < 0 {
		n.MaxRetries = 0
	}

	return n
}

// Retryable marks errors the retry loop may try again. Errors that do not
// implement it, or report false, propagate immediately.
type Retryable interface {
	IsRetryable() bool
}

// IsRetryable reports whether any error in err's chain is marked retryable.
func IsRetryable(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}

	return false
}

// WithRetry runs fn up to opts.MaxRetries+1 times, sleeping an exponentially
// growing, jittered delay between attempts. Only retryable errors are
// retried; the last error is returned when attempts run out.
func WithRetry[T any](ctx context.Context, opts RetryOptions, fn func() (T, error)) (T, error) {
	var zero T

	opts = opts.normalized()

	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		value, err := fn()
		if err == nil {
			return value, nil
		}

		lastErr = err

		if attempt == opts.MaxRetries {
			break
		}

		if !IsRetryable(err) {
			return zero, err
		}

		select {
		case <-time.After(BackoffDelay(attempt, opts)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// BackoffDelay returns the delay before retrying a failed attempt (0-based):
// initial delay grown by the multiplier per attempt, capped at the max, with
// +/-25% random jitter to avoid synchronized retries.
func BackoffDelay(attempt int, opts RetryOptions) time.Duration {
	backoff := float64(opts.InitialDelay) * math.Pow(opts.Multiplier, float64(attempt))

	jitter := backoff * 0.25 * (rand.Float64()*2 - 1) // #nosec G404 non-crypto

	delay := time.Duration(backoff + jitter)
	if delay > opts.MaxDelay {
		delay = opts.MaxDelay
	}

	if delay < 0 {
		delay = 0
	}

	return delay
}
