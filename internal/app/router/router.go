// Package router は gin エンジンとルーティングを組み立てます。
package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "task_backend/internal/feature/auth/transport/handler"
	taskhandler "task_backend/internal/feature/task/transport/handler"
	platformhandler "task_backend/internal/platform/http/handler"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/platform/ratelimit"
	"task_backend/internal/shared/response"
)

const defaultMaxBodyBytes = 1 << 20

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Config はルーターの設定です。
type Config struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

// LoadConfig は環境変数 CORS_ORIGINS（カンマ区切り）を読み込みます。
func LoadConfig() Config {
	cfg := Config{CORSOrigins: defaultCORSOrigins, MaxBodyBytes: defaultMaxBodyBytes}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	return cfg
}

// Handlers はルーティングに登録するハンドラー一式です。
type Handlers struct {
	Auth          *authhandler.AuthHandler
	Tasks         *taskhandler.TaskHandler
	Authenticator jwtmw.Authenticator
	Limiter       ratelimit.Limiter
	HealthCheck   platformhandler.Checker
}

func NewRouter(cfg Config, h Handlers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(bodyLimit(cfg.MaxBodyBytes))

	api := r.Group("/api")

	// 認証不要・レート制限なし（導通確認用）
	health := platformhandler.Health(h.HealthCheck)
	api.GET("/health", health)
	api.HEAD("/health", health)

	if h.Limiter != nil {
		api.Use(ratelimit.Middleware(h.Limiter))
	}
	authRequired := jwtmw.AuthRequired(h.Authenticator)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.GET("/reset-password/:token", h.Auth.VerifyResetToken)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.POST("/logout", h.Auth.Logout)

		auth.GET("/me", authRequired, h.Auth.Me)
		auth.GET("/profile", authRequired, h.Auth.Me)
		auth.POST("/refresh", authRequired, h.Auth.Refresh)
		auth.PUT("/profile", authRequired, h.Auth.UpdateProfile)
		auth.PUT("/password", authRequired, h.Auth.UpdatePassword)
	}

	tasks := api.Group("/tasks", authRequired)
	h.Tasks.RegisterRoutes(tasks)

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found")
	})

	return r
}

// bodyLimit は limit バイトを超えるボディを 413 で拒否します。
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.AbortFail(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
