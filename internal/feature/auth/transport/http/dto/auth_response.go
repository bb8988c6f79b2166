package dto

import "task_backend/internal/feature/auth/domain/entity"

// AuthResponse is the data of a successful register or login.
type AuthResponse struct {
	User  entity.Profile `json:"user"`
	Token string         `json:"token"`
}

// UserResponse wraps a single public profile.
type UserResponse struct {
	User entity.Profile `json:"user"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}
