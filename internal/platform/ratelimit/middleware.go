package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task_backend/internal/shared/response"
)

// TooManyRequestsMessage is returned with every 429.
const TooManyRequestsMessage = "Too many requests from this IP, please try again later."

// Limiter decides whether the request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

var (
	_ Limiter = (*SlidingWindowLimiter)(nil)
	_ Limiter = (*FixedWindowLimiter)(nil)
)

// Middleware limits requests per client IP. Limiter failures are logged and
// the request is let through.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		res, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", ip)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			slog.Warn("rate limit exceeded", "remote_addr", ip, "path", c.Request.URL.Path)
			response.AbortFail(c, http.StatusTooManyRequests, TooManyRequestsMessage)
			return
		}
		c.Next()
	}
}
