// Package cache stores provider model lists so the API does not hit the
// provider on every catalog request.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMiss is returned when a key is absent or its entry expired.
var ErrMiss = errors.New("cache miss")

const DefaultTTL = 5 * time.Minute

// ModelCache stores model lists keyed by API config ID.
type ModelCache interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, models []string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// New selects a cache backend from a URL: redis:// uses Redis, everything
// else the in-process cache.
func New(url string) (ModelCache, error) {
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		return NewRedisCache(url)
	}

	return NewMemoryCache(128), nil
}
