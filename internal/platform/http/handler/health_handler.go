// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker は依存先（DBなど）に到達できるかを返します。
type Checker func(ctx context.Context) error

// Health は /health エンドポイントのハンドラーを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// check が失敗した場合、GET は 503 を返します。
func Health(check Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				status = http.StatusServiceUnavailable
				body["status"] = "UNAVAILABLE"
				body["message"] = "Database is unreachable"
			}
		}
		c.JSON(status, body)
	}
}
