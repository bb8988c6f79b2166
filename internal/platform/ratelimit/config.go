// Package ratelimit limits how many requests a client may make per window.
// Redis backs a sliding window shared across instances; without Redis an
// in-process fixed window is used.
package ratelimit

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultRequests = 100
	defaultWindow   = 15 * time.Minute
)

// Config sets how many requests each client may make per window.
type Config struct {
	Requests int
	Window   time.Duration
}

// LoadConfig reads RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW, falling back to 100 per 15 minutes.
func LoadConfig() Config {
	cfg := Config{Requests: defaultRequests, Window: defaultWindow}
	if raw := os.Getenv("RATE_LIMIT_REQUESTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			slog.Warn("invalid RATE_LIMIT_REQUESTS, using default", "value", raw, "default", defaultRequests)
		} else {
			cfg.Requests = n
		}
	}
	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			slog.Warn("invalid RATE_LIMIT_WINDOW, using default", "value", raw, "default", defaultWindow)
		} else {
			cfg.Window = d
		}
	}
	return cfg
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}
