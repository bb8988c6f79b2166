// Package adapters provides the repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// userRepository is the GORM implementation of usecase.UserRepository.
// It works against any dialect opened by platform/db.
type userRepository struct {
	db *gorm.DB
}

// Verify at compile time that userRepository implements UserRepository.
var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a userRepository backed by db.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create inserts the user. A duplicate email yields usecase.ErrEmailAlreadyExists.
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail returns the user with the given email or usecase.ErrUserNotFound.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID returns the user with the given ID or usecase.ErrUserNotFound.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByResetToken returns the user holding an unexpired reset token with the given digest.
func (r *userRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return r.first(ctx, "reset_password_token = ? AND reset_password_expires > ?", digest, now)
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update saves all fields of u, including zero and nil values.
func (r *userRepository) Update(ctx context.Context, u *entity.User) error {
	res := r.db.WithContext(ctx).Save(u)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return res.Error
	}
	return nil
}

// UpdateLastLogin sets last_login without touching other columns.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"last_login": at})
}

// UpdateResetToken stores the reset token digest and expiry. Nil arguments clear them.
func (r *userRepository) UpdateResetToken(ctx context.Context, id uint, digest *string, expires *time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"reset_password_token":   digest,
		"reset_password_expires": expires,
	})
}

// ConsumeResetToken sets the password and clears the token in one conditional
// UPDATE, so a token is accepted at most once.
func (r *userRepository) ConsumeResetToken(ctx context.Context, digest string, now time.Time, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("reset_password_token = ? AND reset_password_expires > ?", digest, now).
		Updates(map[string]any{
			"password":               passwordHash,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) updateColumns(ctx context.Context, id uint, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// isDuplicateKey recognizes unique violations both when GORM error
// translation is enabled and from a raw pgx error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
