package repository

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
