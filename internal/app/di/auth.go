package di

import (
	"log/slog"

	"task_backend/internal/feature/auth/usecase"
	infrahttp "task_backend/internal/platform/http"
	"task_backend/internal/platform/mail"
)

// NewMailer creates the ResetMailer.
// If a mail API is configured, reset links are sent through it. Otherwise, they are logged.
func NewMailer(cfg mail.Config) usecase.ResetMailer {
	if !cfg.Enabled() {
		slog.Warn("MAIL_API_URL is not set; password reset links will be logged instead of sent")
		return mail.NewLogMailer(cfg)
	}
	return mail.NewHTTPMailer(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
