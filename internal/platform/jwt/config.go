package jwtmw

import (
	"errors"
	"log/slog"
	"os"
	"time"
)

const (
	// EnvKeyJWTSecret is the environment variable holding the HMAC signing key.
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTExpiresIn is the environment variable holding the token lifetime as a Go duration.
	EnvKeyJWTExpiresIn = "JWT_EXPIRES_IN"

	defaultExpiration = 24 * time.Hour
)

// ErrMissingSecret reports that JWT_SECRET is unset.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Config holds the token signing settings.
type Config struct {
	Secret     string
	Expiration time.Duration
}

// LoadConfig reads the token settings from the environment.
// An invalid or missing JWT_EXPIRES_IN falls back to one day; a missing
// JWT_SECRET is an error.
func LoadConfig() (Config, error) {
	cfg := Config{
		Secret:     os.Getenv(EnvKeyJWTSecret),
		Expiration: defaultExpiration,
	}
	if cfg.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	if v := os.Getenv(EnvKeyJWTExpiresIn); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid JWT_EXPIRES_IN, using default", "value", v, "default", defaultExpiration)
		} else {
			cfg.Expiration = d
		}
	}
	return cfg, nil
}
