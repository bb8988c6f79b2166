// Package mail delivers password reset links through an HTTP mail API or the log.
package mail

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	defaultFrontendURL = "http://localhost:3000"
	defaultTimeout     = 10 * time.Second
)

// Config holds configuration for the mail API client.
type Config struct {
	APIURL      string        // Endpoint accepting a JSON message (e.g. "https://mail.example.com/v1/send")
	APIKey      string        // Bearer token for the mail API
	From        string        // Sender address
	FrontendURL string        // Base URL of the reset page linked in the message
	Timeout     time.Duration // HTTP request timeout
}

// LoadConfig loads mail configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIURL:      os.Getenv("MAIL_API_URL"),
		APIKey:      os.Getenv("MAIL_API_KEY"),
		From:        os.Getenv("MAIL_FROM"),
		FrontendURL: strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		Timeout:     defaultTimeout,
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = defaultFrontendURL
	}
	if raw := os.Getenv("MAIL_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			slog.Warn("invalid MAIL_TIMEOUT, using default", "value", raw, "default", defaultTimeout)
		} else {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Enabled reports whether an HTTP mail API is configured.
func (c Config) Enabled() bool {
	return c.APIURL != ""
}

// ResetURL returns the link a user follows to reset their password.
func (c Config) ResetURL(token string) string {
	return c.FrontendURL + "/reset-password/" + token
}
