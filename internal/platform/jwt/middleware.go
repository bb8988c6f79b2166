package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"task_backend/internal/shared/response"
)

// ContextUserID is the gin context key under which the authenticated user ID is stored.
const ContextUserID = "userID"

// Authenticator resolves a bearer token to an active user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.AbortFail(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		userID, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			slog.Warn("authentication failed", "error", err, "remote_addr", c.ClientIP())
			response.AbortFail(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID stored by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
