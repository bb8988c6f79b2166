package usecase

import (
	"strings"

	"task_backend/internal/shared/validate"
)

const (
	nameLengthMessage     = "Name must be between 2 and 50 characters"
	nameCharsMessage      = "Name can only contain letters and spaces"
	emailMessage          = "Please provide a valid email address"
	passwordLengthMessage = "Password must be at least 6 characters long"
	passwordCharsMessage  = "Password must contain at least one lowercase letter, one uppercase letter, and one number"
)

// RegisterInput is the validated payload for Register.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=2,max=50,personname"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"min=6,strongpassword"`
}

func (RegisterInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"name.min":                nameLengthMessage,
		"name.max":                nameLengthMessage,
		"name.personname":         nameCharsMessage,
		"email.required":          emailMessage,
		"email.email":             emailMessage,
		"email.max":               emailMessage,
		"password.min":            passwordLengthMessage,
		"password.strongpassword": passwordCharsMessage,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (loginInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"email.required":    emailMessage,
		"email.email":       emailMessage,
		"password.required": "Password is required",
	}
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (emailInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"email.required": emailMessage,
		"email.email":    emailMessage,
	}
}

type resetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"min=6,strongpassword"`
}

func (resetPasswordInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"token.required":          "Reset token is required",
		"password.min":            passwordLengthMessage,
		"password.strongpassword": passwordCharsMessage,
	}
}

// UpdateProfileInput is a partial profile update; nil fields are left unchanged.
type UpdateProfileInput struct {
	Name   *string `json:"name" validate:"omitnil,min=2,max=50,personname"`
	Avatar *string `json:"avatar" validate:"omitnil,url"`
}

func (UpdateProfileInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"name.min":        nameLengthMessage,
		"name.max":        nameLengthMessage,
		"name.personname": nameCharsMessage,
		"avatar.url":      "Avatar must be a valid URL",
	}
}

type updatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"min=6,strongpassword"`
}

func (updatePasswordInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"currentPassword.required":   "Current password is required",
		"newPassword.min":            "New password must be at least 6 characters long",
		"newPassword.strongpassword": "New password must contain at least one lowercase letter, one uppercase letter, and one number",
	}
}

// NormalizeEmail trims and lower-cases an email address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
