// Package redis は統計キャッシュとレートリミッターが使う任意のRedisへ接続します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured は REDIS_HOST が未設定の場合に返されます。
var ErrNotConfigured = errors.New("redis is not configured")

const pingTimeout = 5 * time.Second

// Config はRedisの接続パラメータです。
type Config struct {
	Host     string
	Port     string
	Password string
}

// LoadConfig は環境変数からRedisの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	return cfg
}

// Addr は host:port を返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient はRedisに接続し、疎通を確認します。
// ホスト未設定時は ErrNotConfigured を返すので、呼び出し側はプロセス内実装にフォールバックできます。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
