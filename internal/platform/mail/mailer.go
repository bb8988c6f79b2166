package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"task_backend/internal/feature/auth/usecase"
	"task_backend/internal/platform/mail/dto"
)

const resetSubject = "Password Reset Request"

// HTTPMailer posts password reset messages to a JSON mail API.
type HTTPMailer struct {
	cfg    Config
	client *http.Client
}

var _ usecase.ResetMailer = (*HTTPMailer)(nil)

// NewHTTPMailer creates an HTTPMailer with the given configuration and HTTP client.
func NewHTTPMailer(cfg Config, client *http.Client) *HTTPMailer {
	return &HTTPMailer{cfg: cfg, client: client}
}

// SendPasswordReset emails a reset link for token to the given address.
func (m *HTTPMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	link := m.cfg.ResetURL(token)
	body, err := json.Marshal(dto.SendRequest{
		From:    m.cfg.From,
		To:      to,
		Subject: resetSubject,
		Text:    resetText(link),
		HTML:    resetHTML(link),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	}

	res, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		var e dto.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&e); err == nil && e.Message != "" {
			return fmt.Errorf("mail api http %d: %s", res.StatusCode, e.Message)
		}
		return fmt.Errorf("mail api http %d", res.StatusCode)
	}
	return nil
}

// LogMailer writes reset links to the log instead of sending them.
// It is used when no mail API is configured.
type LogMailer struct {
	cfg Config
}

var _ usecase.ResetMailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer(cfg Config) *LogMailer {
	return &LogMailer{cfg: cfg}
}

// SendPasswordReset logs the reset link.
func (m *LogMailer) SendPasswordReset(_ context.Context, to, token string) error {
	slog.Info("password reset requested; mail API not configured", "to", to, "reset_url", m.cfg.ResetURL(token))
	return nil
}

func resetText(link string) string {
	return "You are receiving this email because you (or someone else) has requested the reset of a password.\n\n" +
		"Please follow this link to reset your password:\n\n" + link + "\n\n" +
		"This link expires in 10 minutes. If you did not request this, please ignore this email."
}

func resetHTML(link string) string {
	href := html.EscapeString(link)
	return `<p>You are receiving this email because you (or someone else) has requested the reset of a password.</p>` +
		`<p><a href="` + href + `">Reset your password</a></p>` +
		`<p>This link expires in 10 minutes. If you did not request this, please ignore this email.</p>`
}
