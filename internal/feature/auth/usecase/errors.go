// Package usecase implements the business logic for the auth feature.
package usecase

import "task_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email, ID or reset token.
	ErrUserNotFound = apperr.NotFound("User not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.Conflict("User with this email already exists")

	// ErrInvalidCredentials is returned for any failed login. It never says
	// whether the email or the password was wrong.
	ErrInvalidCredentials = apperr.Authentication("Invalid email or password")

	// ErrNotAuthorized is returned when a session token is missing, invalid,
	// expired, or resolves to a missing or deactivated user.
	ErrNotAuthorized = apperr.Authentication("Not authorized")

	// ErrInvalidResetToken is returned when a reset token is unknown or expired.
	ErrInvalidResetToken = apperr.Validation("token", "Invalid or expired reset token")

	// ErrIncorrectPassword is returned when the current password does not match on password change.
	ErrIncorrectPassword = apperr.Validation("currentPassword", "Current password is incorrect")

	// ErrNoProfileFields is returned when a profile update carries no fields.
	ErrNoProfileFields = apperr.Validation("", "No valid fields to update")

	// ErrEmailNotSent is returned when the reset email could not be dispatched.
	ErrEmailNotSent = apperr.Transport("Email could not be sent")
)
