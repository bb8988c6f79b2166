package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"task_backend/internal/app/di"
	"task_backend/internal/app/router"
	authadapters "task_backend/internal/feature/auth/adapters"
	authhandler "task_backend/internal/feature/auth/transport/handler"
	authusecase "task_backend/internal/feature/auth/usecase"
	taskhandler "task_backend/internal/feature/task/transport/handler"
	taskusecase "task_backend/internal/feature/task/usecase"
	"task_backend/internal/platform/db"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/platform/mail"
	"task_backend/internal/platform/ratelimit"
	infraredis "task_backend/internal/platform/redis"
)

const (
	defaultPort            = "5000"
	defaultShutdownTimeout = 30 * time.Second
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))})))

	// DB
	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		slog.Error("failed to access database pool", "error", err)
		os.Exit(1)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache and with in-process rate limiting.", "error", err)
	} else {
		rdb = tmp
	}

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)
	taskRepo := di.NewTaskRepository(gdb, rdb)

	// Usecase
	jwtCfg, err := jwtmw.LoadConfig()
	if err != nil {
		slog.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}
	tokens := jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.Expiration)
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, di.NewMailer(mail.LoadConfig()))
	taskUC := taskusecase.NewTaskUsecase(taskRepo)

	// ルータ生成
	engine := router.NewRouter(router.LoadConfig(), router.Handlers{
		Auth:          authhandler.NewAuthHandler(authUC),
		Tasks:         taskhandler.NewTaskHandler(taskUC),
		Authenticator: authUC,
		Limiter:       di.NewRateLimiter(ratelimit.LoadConfig(), rdb),
		HealthCheck:   sqlDB.PingContext,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// グレースフルシャットダウン
	timeout := shutdownTimeout(os.Getenv("SHUTDOWN_TIMEOUT"))
	ops := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
		"database": func(ctx context.Context) error {
			return sqlDB.Close()
		},
	}
	if rdb != nil {
		ops["redis"] = func(ctx context.Context) error {
			return rdb.Close()
		}
	}
	wait := gfshutdown.GracefulShutdown(context.Background(), timeout, ops)

	exitCode := <-wait
	slog.Info("application exited", "code", exitCode)
	os.Exit(exitCode)
}

func logLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func shutdownTimeout(raw string) time.Duration {
	if raw == "" {
		return defaultShutdownTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid SHUTDOWN_TIMEOUT, using default", "value", raw, "default", defaultShutdownTimeout)
		return defaultShutdownTimeout
	}
	return d
}
