package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/shared/validate"
)

const (
	// resetTokenTTL is how long a password reset token stays valid.
	resetTokenTTL = 10 * time.Minute
	// resetTokenBytes is the entropy of a reset token before hex encoding.
	resetTokenBytes = 32
	// dummyPasswordHash is compared against when the user does not exist so
	// that login timing does not reveal which emails are registered.
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves the user with the given normalized email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves the user with the given ID, or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByResetToken retrieves the user whose reset token digest matches and
	// has not expired at now, or ErrUserNotFound.
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error)

	// Update saves every field of user.
	Update(ctx context.Context, user *entity.User) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error

	// UpdateResetToken sets or, with nil arguments, clears the reset token.
	UpdateResetToken(ctx context.Context, id uint, digest *string, expires *time.Time) error

	// ConsumeResetToken atomically replaces the password of the user holding
	// an unexpired token with the given digest and clears the token.
	// It returns ErrUserNotFound when no such token exists.
	ConsumeResetToken(ctx context.Context, digest string, now time.Time, passwordHash string) error
}

// TokenManager issues and verifies signed session tokens.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform/jwt).
type TokenManager interface {
	// GenerateToken returns a signed token for the given user.
	GenerateToken(userID uint, email string) (string, error)
	// ParseToken verifies signature and expiry and returns the user ID.
	ParseToken(token string) (uint, error)
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  entity.Profile
}

// authUsecase implements authentication business logic.
type authUsecase struct {
	users  UserRepository
	tokens TokenManager
	mailer ResetMailer
	schema *validate.Schema
	now    func() time.Time
	cost   int
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, tokens TokenManager, mailer ResetMailer) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		schema: validate.New(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

func (u *authUsecase) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a user with a hashed password, records the login time and
// returns a session token with the public profile.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := u.schema.Check(in); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := u.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entity.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		IsActive:  true,
		LastLogin: &now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}

// Login authenticates the user and returns a fresh session token.
// The bcrypt comparison always runs, even for unknown emails, to mitigate timing attacks.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := loginInput{Email: NormalizeEmail(email), Password: password}
	if err := u.schema.Check(in); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if user != nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))

	if user == nil || !user.IsActive || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := u.now()
	if err := u.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	return &AuthResult{Token: token, User: user.Profile()}, nil
}

// GetCurrentUser resolves a session token to an active user.
// Any failure, including lookup failures, is reported as ErrNotAuthorized.
func (u *authUsecase) GetCurrentUser(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrNotAuthorized
	}
	userID, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrNotAuthorized
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("user lookup failed during authentication", "error", err, "user_id", userID)
		}
		return nil, ErrNotAuthorized
	}
	if !user.IsActive {
		return nil, ErrNotAuthorized
	}
	return user, nil
}

// Authenticate is GetCurrentUser reduced to the user ID, for middleware.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (uint, error) {
	user, err := u.GetCurrentUser(ctx, token)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Profile returns the public profile of the user.
func (u *authUsecase) Profile(ctx context.Context, userID uint) (entity.Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return entity.Profile{}, err
	}
	return user.Profile(), nil
}

// RefreshToken issues a new session token for an already authenticated user.
func (u *authUsecase) RefreshToken(ctx context.Context, userID uint) (string, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Logout is a no-op: tokens are stateless and discarded by the client.
func (u *authUsecase) Logout(_ context.Context, userID uint) error {
	slog.Info("user logged out", "user_id", userID)
	return nil
}

// ForgotPassword issues a reset token and mails it. It succeeds silently for
// unknown emails. When dispatch fails the token is cleared again.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	in := emailInput{Email: NormalizeEmail(email)}
	if err := u.schema.Check(in); err != nil {
		return err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	digest := DigestResetToken(token)
	expires := u.now().Add(resetTokenTTL)
	if err := u.users.UpdateResetToken(ctx, user.ID, &digest, &expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := u.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		slog.Error("password reset email failed", "error", err, "user_id", user.ID)
		if clearErr := u.users.UpdateResetToken(ctx, user.ID, nil, nil); clearErr != nil {
			slog.Error("failed to clear reset token", "error", clearErr, "user_id", user.ID)
		}
		return ErrEmailNotSent
	}
	return nil
}

// VerifyResetToken succeeds when token is known and unexpired.
func (u *authUsecase) VerifyResetToken(ctx context.Context, token string) error {
	_, err := u.findByResetToken(ctx, token)
	return err
}

// ResetPassword replaces the password of the user holding token and clears the token.
func (u *authUsecase) ResetPassword(ctx context.Context, token, password string) error {
	if err := u.schema.Check(resetPasswordInput{Token: token, Password: password}); err != nil {
		return err
	}

	if _, err := u.findByResetToken(ctx, token); err != nil {
		return err
	}

	hashed, err := u.hashPassword(password)
	if err != nil {
		return err
	}
	// The token may have been used while hashing; only one reset can consume it.
	err = u.users.ConsumeResetToken(ctx, DigestResetToken(token), u.now(), hashed)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (u *authUsecase) findByResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	user, err := u.users.FindByResetToken(ctx, DigestResetToken(token), u.now())
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidResetToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. At least one field is required.
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (entity.Profile, error) {
	if in.Name == nil && in.Avatar == nil {
		return entity.Profile{}, ErrNoProfileFields
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := u.schema.Check(in); err != nil {
		return entity.Profile{}, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return entity.Profile{}, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if err := u.users.Update(ctx, user); err != nil {
		return entity.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdatePassword replaces the password after verifying the current one.
func (u *authUsecase) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	in := updatePasswordInput{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := u.schema.Check(in); err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hashed, err := u.hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return u.users.Update(ctx, user)
}

// DigestResetToken returns the hex SHA-256 digest under which a reset token is stored.
func DigestResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
