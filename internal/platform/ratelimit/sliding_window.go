package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// hitLogScript keeps one sorted-set member per admitted request, scored by
// its arrival time in ms. It replies {admitted, hits, oldest_ms}; oldest_ms is
// only set when the request is refused.
var hitLogScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)
local hits = redis.call('ZCARD', KEYS[1])
if hits >= tonumber(ARGV[3]) then
	local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
	return {0, hits, tonumber(first[2])}
end
redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, hits + 1, 0}
`)

// SlidingWindowLimiter counts requests per key over the trailing window in
// Redis, so every instance shares the same budget.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	cfg    Config
	prefix string
	now    func() time.Time
}

func NewSlidingWindowLimiter(rdb *redis.Client, cfg Config, prefix string) *SlidingWindowLimiter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &SlidingWindowLimiter{rdb: rdb, cfg: cfg, prefix: prefix, now: time.Now}
}

// Allow records a hit for key unless the key has used up its budget.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	window := l.cfg.Window.Milliseconds()

	reply, err := hitLogScript.Run(ctx, l.rdb, []string{l.prefix + key},
		now.UnixMilli(), window, l.cfg.Requests, uuid.NewString()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(reply) != 3 {
		return nil, fmt.Errorf("rate limit script: got %d values, want 3", len(reply))
	}
	admitted, hits, oldest := reply[0] == 1, int(reply[1]), reply[2]

	if admitted {
		return &Result{
			Allowed:   true,
			Limit:     l.cfg.Requests,
			Remaining: max(l.cfg.Requests-hits, 0),
			ResetAt:   now.Add(l.cfg.Window),
		}, nil
	}

	freedAt := time.UnixMilli(oldest + window)
	retry := max(freedAt.Sub(now), 0)
	return &Result{
		Limit:      l.cfg.Requests,
		ResetAt:    now.Add(retry),
		RetryAfter: retry,
	}, nil
}
