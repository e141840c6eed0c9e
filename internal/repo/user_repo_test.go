package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

func seedUser(t *testing.T, db *gorm.DB, username, email string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, &domain.User{
		Username:     username,
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestCreateUser_AssignsIDAndPersists(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	u := seedUser(t, db, "alice", "alice@example.com")
	if u.ID == "" {
		t.Fatalf("expected generated ID")
	}
	got, err := GetUserByID(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" || got.IsVerified {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateUser_DuplicateEmailFails(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, "alice", "alice@example.com")

	_, err := CreateUser(context.Background(), db, &domain.User{
		Username:     "alice2",
		FullName:     "A",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	if err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	if _, err := GetUserByEmail(context.Background(), db, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkUserVerified_ClearsOTP(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "bob", "bob@example.com")

	exp := time.Now().UTC().Add(10 * time.Minute)
	if err := SetUserOTP(context.Background(), db, u.ID, "123456", exp); err != nil {
		t.Fatalf("SetUserOTP: %v", err)
	}
	if err := MarkUserVerified(context.Background(), db, u.ID); err != nil {
		t.Fatalf("MarkUserVerified: %v", err)
	}

	got, err := GetUserByID(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !got.IsVerified || got.OTP != "" || got.OTPExpiry != nil {
		t.Fatalf("verification did not clear OTP columns: %+v", got)
	}
}

func TestUpdateUserPassword_ClearsResetOTP(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "carol", "carol@example.com")

	exp := time.Now().UTC().Add(10 * time.Minute)
	if err := SetUserResetOTP(context.Background(), db, u.ID, "654321", exp); err != nil {
		t.Fatalf("SetUserResetOTP: %v", err)
	}
	if err := UpdateUserPassword(context.Background(), db, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUserByID(context.Background(), db, u.ID)
	if got.PasswordHash != "new-hash" || got.ResetOTP != "" || got.ResetOTPExpiry != nil {
		t.Fatalf("password update did not clear reset columns: %+v", got)
	}
}

func TestUpdateUserFields_MissingUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	err := UpdateUserFields(context.Background(), db, "missing", map[string]any{"bio": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_HardDeletes(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "dave", "dave@example.com")

	if err := DeleteUser(context.Background(), db, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	// Unscoped lookup confirms the row is really gone, not soft-deleted.
	var count int64
	db.Unscoped().Model(&domain.User{}).Where("id = ?", u.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected hard delete, found %d rows", count)
	}
	if err := DeleteUser(context.Background(), db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
