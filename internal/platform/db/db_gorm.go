// Package db はリポジトリが使う gorm の接続を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task_backend/internal/feature/auth/domain/entity"
	taskadapters "task_backend/internal/feature/task/adapters"
)

const (
	// DriverPostgres selects gorm.io/driver/postgres.
	DriverPostgres = "postgres"
	// DriverSQLite selects gorm.io/driver/sqlite.
	DriverSQLite = "sqlite"

	defaultSQLitePath = "task_backend.db"
	connectTimeout    = 60 * time.Second
	retryInterval     = 3 * time.Second
)

// ErrUnknownDriver は未対応の DB_DRIVER が指定された場合に Open が返します。
var ErrUnknownDriver = errors.New("unknown database driver")

// Config はデータベースの接続パラメータです。
type Config struct {
	Driver       string
	Path         string
	URL          string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	SSLMode      string
	InstanceName string
	Migrate      bool
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:       strings.ToLower(os.Getenv("DB_DRIVER")),
		Path:         os.Getenv("DB_PATH"),
		URL:          os.Getenv("DATABASE_URL"),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		SSLMode:      os.Getenv("DB_SSLMODE"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		Migrate:      os.Getenv("RUN_MIGRATIONS") == "true",
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Path == "" {
		cfg.Path = defaultSQLitePath
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// BuildDSN は cfg.Driver 用の接続文字列を組み立てます。
// postgres の優先順位: Cloud SQL インスタンス > DATABASE_URL > host/port
func BuildDSN(cfg Config) string {
	if cfg.Driver != DriverPostgres {
		return cfg.Path
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener はテスト用に gorm.Open を抽象化します。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry はタイムアウトまでリトライしながらデータベースへ接続します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// GormConfig は全接続共通の設定です。
// ドライバーのエラーは gorm のエラーに変換し、時刻は UTC で書き込みます。
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// NewOpener は driver に対応する Opener を返します。
func NewOpener(driver string) (Opener, error) {
	switch driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), GormConfig()) }, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), GormConfig()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Open は cfg で接続し、有効な場合はマイグレーションを実行します。
// SQLite はローカル用途のため常にマイグレーションします。
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, opener)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate || cfg.Driver == DriverSQLite {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// Migrate は users / tasks テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &taskadapters.TaskModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
