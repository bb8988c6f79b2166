package di

import (
	"github.com/redis/go-redis/v9"

	"task_backend/internal/platform/ratelimit"
)

// NewRateLimiter creates a Limiter.
// If Redis is available, it returns a sliding window shared across instances.
// Otherwise, it falls back to an in-process fixed window.
func NewRateLimiter(cfg ratelimit.Config, rdb *redis.Client) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.NewSlidingWindowLimiter(rdb, cfg, "ratelimit:")
	}
	return ratelimit.NewFixedWindowLimiter(cfg)
}
