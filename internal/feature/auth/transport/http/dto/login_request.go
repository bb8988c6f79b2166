// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
//
// Requests carry only the JSON shape; field rules are enforced by the usecase.
package dto

// LoginRequest represents the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
