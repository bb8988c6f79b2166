// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Name is the display name (letters and spaces only).
	Name string `gorm:"size:50;not null"`

	// Email is the normalized (trimmed, lower-cased) address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Avatar is an optional profile image URL.
	Avatar string `gorm:"size:2048"`

	// ResetPasswordToken is the SHA-256 digest of the active reset token, if any.
	ResetPasswordToken *string `gorm:"size:64;index"`

	// ResetPasswordExpires is when ResetPasswordToken stops being accepted.
	ResetPasswordExpires *time.Time

	// IsActive is false for deactivated accounts, which can no longer authenticate.
	IsActive bool `gorm:"not null;default:true"`

	// LastLogin is the time of the most recent successful register or login.
	LastLogin *time.Time

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// Profile is the public view of a user. It never carries the password hash
// or reset token fields.
type Profile struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar,omitempty"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// HasValidResetToken reports whether digest matches the stored reset token
// and that token has not expired at now.
func (u *User) HasValidResetToken(digest string, now time.Time) bool {
	if u.ResetPasswordToken == nil || u.ResetPasswordExpires == nil {
		return false
	}
	return *u.ResetPasswordToken == digest && u.ResetPasswordExpires.After(now)
}
