package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// FixedWindowLimiter counts requests per key in fixed windows held in process memory.
// It is used when Redis is not configured.
type FixedWindowLimiter struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

// NewFixedWindowLimiter creates an in-process limiter.
func NewFixedWindowLimiter(cfg Config) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *FixedWindowLimiter) Allow(_ context.Context, key string) (*Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	w, ok := l.windows[key]
	// Reset the count once the window has passed
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		w = &window{start: now}
		l.windows[key] = w
	}

	resetAt := w.start.Add(l.cfg.Window)
	if w.count >= l.cfg.Requests {
		return &Result{
			Allowed:    false,
			Limit:      l.cfg.Requests,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}

	w.count++
	return &Result{
		Allowed:   true,
		Limit:     l.cfg.Requests,
		Remaining: l.cfg.Requests - w.count,
		ResetAt:   resetAt,
	}, nil
}

// sweep drops expired windows at most once per window so the map stays bounded.
func (l *FixedWindowLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.Window {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.cfg.Window {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}
