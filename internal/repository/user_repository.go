package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"finman/internal/model"
)

// UserRepository defines user persistence operations. The OTP challenge trio
// (hash, expiry, verified) is only ever written through SetOTPChallenge,
// ClearOTPChallenge and CompleteChallenge so hash and expiry can never drift
// apart.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	SetOTPChallenge(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	ClearOTPChallenge(ctx context.Context, id uuid.UUID, verified bool) error
	// CompleteChallenge clears the challenge, marks it verified and shifts the
	// login timestamps (previousLoginAt takes the old lastLoginAt) in a single
	// statement.
	CompleteChallenge(ctx context.Context, id uuid.UUID, loginAt time.Time) error

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	RecordLogout(ctx context.Context, id uuid.UUID, logoutAt time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetOTPChallenge(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp_hash":       hash,
			"otp_expires_at": expiresAt,
			"otp_verified":   false,
		}).Error
}

func (r *userRepository) ClearOTPChallenge(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp_hash":       "",
			"otp_expires_at": nil,
			"otp_verified":   verified,
		}).Error
}

func (r *userRepository) CompleteChallenge(ctx context.Context, id uuid.UUID, loginAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp_hash":          "",
			"otp_expires_at":    nil,
			"otp_verified":      true,
			"previous_login_at": gorm.Expr("last_login_at"),
			"last_login_at":     loginAt,
		}).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) RecordLogout(ctx context.Context, id uuid.UUID, logoutAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_logout_at", logoutAt).Error
}
