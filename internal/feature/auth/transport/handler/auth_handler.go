// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/transport/http/dto"
	"task_backend/internal/feature/auth/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/response"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

// AuthUsecase defines the authentication operations used by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	Profile(ctx context.Context, userID uint) (entity.Profile, error)
	RefreshToken(ctx context.Context, userID uint) (string, error)
	Logout(ctx context.Context, userID uint) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
	UpdateProfile(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (entity.Profile, error)
	UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

// AuthHandler handles HTTP requests for authentication and account management.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler with the injected usecase.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// bindJSON decodes the request body into req, writing a 400 on malformed JSON.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn("invalid request body", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// currentUserID returns the user ID set by the auth middleware, writing a 401 when absent.
func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, usecase.ErrNotAuthorized.Message)
	}
	return id, ok
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		slog.Warn("register failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	response.OK(c, http.StatusCreated, "User registered successfully", dto.AuthResponse{User: res.User, Token: res.Token})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// The usecase returns a generic message so the response never reveals which field was wrong.
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	response.OK(c, http.StatusOK, "Login successful", dto.AuthResponse{User: res.User, Token: res.Token})
}

// Me handles GET /auth/me and GET /auth/profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.UserResponse{User: profile})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only acknowledges.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token, err := h.auth.RefreshToken(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.TokenResponse{Token: token})
}

// ForgotPassword handles POST /auth/forgot-password.
// The response is identical whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, forgotPasswordMessage, nil)
}

// VerifyResetToken handles GET /auth/reset-password/:token.
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	if err := h.auth.VerifyResetToken(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Reset token is valid", nil)
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		slog.Warn("password reset failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Password has been reset successfully", nil)
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.auth.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Profile updated successfully", dto.UserResponse{User: profile})
}

// UpdatePassword handles PUT /auth/password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Password updated successfully", nil)
}
