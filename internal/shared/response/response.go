// Package response writes the uniform JSON envelope used by every endpoint.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/shared/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
}

// OK writes a successful envelope with status.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failed envelope with an explicit status and message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// AbortFail is Fail for middleware: it stops the handler chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// Error maps err onto its status and writes a failed envelope.
// Unclassified errors are logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		slog.Error("request failed", "error", err, "method", c.Request.Method, "path", c.FullPath())
		Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if appErr.Kind == apperr.KindTransport {
		slog.Error("downstream failure", "error", err, "path", c.FullPath())
	}
	c.JSON(appErr.Kind.Status(), Envelope{Success: false, Error: appErr.Message, Field: appErr.Field})
}
