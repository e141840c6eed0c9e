// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.AccountService) which enforces business rules such as
// verification, OTP expiry, and password hashing.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new unverified User row. The user ID is a randomly
// generated UUID (string); CreatedAt/UpdatedAt are managed by GORM.
// Uniqueness of username and email is enforced by the schema, so a duplicate
// surfaces as a DB constraint error.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByID fetches a user by primary key. Returns ErrNotFound if missing.
func GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email (stored lowercased).
// Returns ErrNotFound if missing.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by username. Returns ErrNotFound if missing.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserFields applies a partial update to the user row identified by id.
// If no rows are affected, it returns ErrNotFound.
func UpdateUserFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkUserVerified flips is_verified and clears the signup OTP columns in a
// single update. Returns ErrNotFound if the user does not exist.
func MarkUserVerified(ctx context.Context, db *gorm.DB, id string) error {
	return UpdateUserFields(ctx, db, id, map[string]any{
		"is_verified": true,
		"otp":         "",
		"otp_expiry":  nil,
	})
}

// SetUserOTP stores a fresh signup verification code with its expiry.
func SetUserOTP(ctx context.Context, db *gorm.DB, id, otp string, expiry time.Time) error {
	return UpdateUserFields(ctx, db, id, map[string]any{
		"otp":        otp,
		"otp_expiry": expiry,
	})
}

// SetUserResetOTP stores a fresh password-reset code with its expiry.
func SetUserResetOTP(ctx context.Context, db *gorm.DB, id, otp string, expiry time.Time) error {
	return UpdateUserFields(ctx, db, id, map[string]any{
		"reset_otp":        otp,
		"reset_otp_expiry": expiry,
	})
}

// UpdateUserPassword replaces the password hash and clears the reset-OTP
// columns in a single update.
func UpdateUserPassword(ctx context.Context, db *gorm.DB, id, passwordHash string) error {
	return UpdateUserFields(ctx, db, id, map[string]any{
		"password_hash":    passwordHash,
		"reset_otp":        "",
		"reset_otp_expiry": nil,
	})
}

// DeleteUser hard-deletes a user row. Used to roll back account creation when
// the verification email cannot be sent.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Unscoped().Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
