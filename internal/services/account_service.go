// Package services – AccountService
//
// This file implements the AccountService, which owns the account lifecycle:
// registration with email verification, login, password reset, profile
// reads/updates, and the subscription plan. Passwords are hashed with bcrypt;
// verification and reset use short-lived 6-digit codes delivered over email.
//
// Registration is compensated: if the verification email cannot be sent, the
// freshly created row is deleted so the email address is not left occupied by
// an account its owner can never verify.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/repo"
	"github.com/pirinku/go-recipe-backend/internal/token"
)

// Mailer is the outbound email contract required by AccountService.
type Mailer interface {
	SendOTPEmail(to, username, code string) error
	SendPasswordResetEmail(to, username, code string) error
}

// AccountService provides registration, verification, authentication,
// password reset, profile, and subscription-plan operations.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Mail delivers verification and reset codes.
	Mail Mailer

	// OTPTTL is the validity window of a signup verification code.
	OTPTTL time.Duration
	// ResetTTL is the validity window of a password-reset code.
	ResetTTL time.Duration
	// MinPassword is the minimum accepted password length in runes.
	MinPassword int
	// BcryptCost overrides the bcrypt cost; zero means bcrypt.DefaultCost.
	BcryptCost int

	// now is swappable in tests.
	now func() time.Time
}

// NewAccountService constructs an AccountService with sane defaults.
func NewAccountService(db *gorm.DB, mail Mailer) *AccountService {
	return &AccountService{
		DB:          db,
		Mail:        mail,
		OTPTTL:      10 * time.Minute,
		ResetTTL:    10 * time.Minute,
		MinPassword: 6,
		now:         time.Now,
	}
}

// Profile is a user enriched with social-graph counts, as returned to clients.
type Profile struct {
	User           domain.User `json:"user"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	PostsCount     int64       `json:"posts_count"`
}

// Register creates an unverified account and emails a verification code.
// Email is stored lowercased. Returns ErrEmailTaken / ErrUsernameTaken on
// conflicts and ErrEmailDelivery (after rolling back the row) when the email
// cannot be sent.
func (s *AccountService) Register(ctx context.Context, username, fullName, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	if username == "" || fullName == "" || email == "" {
		return nil, errors.New("username, full name, and email are required")
	}
	if utf8.RuneCountInString(password) < s.minPassword() {
		return nil, ErrWeakPassword
	}

	// Friendly conflict errors before hitting the unique indexes.
	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost())
	if err != nil {
		return nil, err
	}

	otp, err := token.GenerateOTP()
	if err != nil {
		return nil, err
	}
	expiry := s.timeNow().UTC().Add(s.OTPTTL)

	u, err := repo.CreateUser(ctx, s.DB, &domain.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		OTP:          otp,
		OTPExpiry:    &expiry,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Mail.SendOTPEmail(u.Email, u.Username, otp); err != nil {
		// Compensate: free the email address for a retry.
		if delErr := repo.DeleteUser(ctx, s.DB, u.ID); delErr != nil {
			log.Error().Err(delErr).Str("user_id", u.ID).
				Msg("failed to roll back account after email failure")
		}
		return nil, ErrEmailDelivery
	}
	return u, nil
}

// VerifyEmail checks the signup code for the account with the given email and
// marks it verified. Returns ErrInvalidOTP for wrong, expired, or missing
// codes and ErrAlreadyVerified for accounts that no longer need it.
func (s *AccountService) VerifyEmail(ctx context.Context, email, otp string) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if u.OTP == "" || u.OTP != strings.TrimSpace(otp) {
		return nil, ErrInvalidOTP
	}
	if u.OTPExpiry == nil || s.timeNow().After(*u.OTPExpiry) {
		return nil, ErrInvalidOTP
	}
	if err := repo.MarkUserVerified(ctx, s.DB, u.ID); err != nil {
		return nil, err
	}
	u.IsVerified = true
	u.OTP = ""
	u.OTPExpiry = nil
	return u, nil
}

// ResendOTP issues a fresh signup code for an unverified account.
func (s *AccountService) ResendOTP(ctx context.Context, email string) error {
	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	otp, err := token.GenerateOTP()
	if err != nil {
		return err
	}
	if err := repo.SetUserOTP(ctx, s.DB, u.ID, otp, s.timeNow().UTC().Add(s.OTPTTL)); err != nil {
		return err
	}
	if err := s.Mail.SendOTPEmail(u.Email, u.Username, otp); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// Login authenticates an email/password pair. Unknown email and wrong
// password both map to ErrInvalidCredentials; an unverified account maps to
// ErrNotVerified so the client can offer to resend the code.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrNotVerified
	}
	return u, nil
}

// ForgotPassword issues a password-reset code. To resist account enumeration
// it returns nil for unknown emails; only infrastructure failures surface.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	otp, err := token.GenerateOTP()
	if err != nil {
		return err
	}
	if err := repo.SetUserResetOTP(ctx, s.DB, u.ID, otp, s.timeNow().UTC().Add(s.ResetTTL)); err != nil {
		return err
	}
	if err := s.Mail.SendPasswordResetEmail(u.Email, u.Username, otp); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword validates a reset code and replaces the password. The code is
// single-use: the reset columns are cleared in the same update that writes the
// new hash.
func (s *AccountService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < s.minPassword() {
		return ErrWeakPassword
	}
	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if u.ResetOTP == "" || u.ResetOTP != strings.TrimSpace(otp) {
		return ErrInvalidOTP
	}
	if u.ResetOTPExpiry == nil || s.timeNow().After(*u.ResetOTPExpiry) {
		return ErrInvalidOTP
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost())
	if err != nil {
		return err
	}
	return repo.UpdateUserPassword(ctx, s.DB, u.ID, string(hash))
}

// GetProfile returns a user with follower/following/post counts.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	followers, err := repo.CountFollowers(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	following, err := repo.CountFollowing(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	var posts int64
	if err := s.DB.WithContext(ctx).Model(&domain.Post{}).Where("user_id = ?", userID).Count(&posts).Error; err != nil {
		return nil, err
	}
	return &Profile{User: *u, FollowersCount: followers, FollowingCount: following, PostsCount: posts}, nil
}

// UpdateProfile applies a partial update to the caller's own profile. Only
// full name, bio, and avatar are updatable here; nil pointers leave a field
// untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, fullName, bio, avatar *string) (*domain.User, error) {
	fields := map[string]any{}
	if fullName != nil {
		v := strings.TrimSpace(*fullName)
		if v == "" {
			return nil, errors.New("full name cannot be empty")
		}
		fields["full_name"] = v
	}
	if bio != nil {
		fields["bio"] = strings.TrimSpace(*bio)
	}
	if avatar != nil {
		fields["avatar"] = strings.TrimSpace(*avatar)
	}
	if len(fields) > 0 {
		if err := repo.UpdateUserFields(ctx, s.DB, userID, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Plan is the subscription state of an account as returned to clients.
type Plan struct {
	IsSubscribed       bool       `json:"is_subscribed"`
	SubscriptionType   string     `json:"subscription_type"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`
}

// GetPlan returns the user's current subscription state.
func (s *AccountService) GetPlan(ctx context.Context, userID string) (*Plan, error) {
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return planOf(u), nil
}

// Subscribe activates a plan for the user. The expiry must lie in the future;
// re-subscribing overwrites the previous plan.
func (s *AccountService) Subscribe(ctx context.Context, userID, planType string, expiry time.Time) (*Plan, error) {
	planType = strings.TrimSpace(planType)
	if planType == "" {
		return nil, ErrPlanTypeRequired
	}
	if !expiry.After(s.timeNow()) {
		return nil, ErrExpiryNotFuture
	}
	expiry = expiry.UTC()
	if err := repo.UpdateUserFields(ctx, s.DB, userID, map[string]any{
		"is_subscribed":       true,
		"subscription_type":   planType,
		"subscription_expiry": expiry,
	}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Plan{IsSubscribed: true, SubscriptionType: planType, SubscriptionExpiry: &expiry}, nil
}

// CancelSubscription clears the user's subscription. Cancelling without an
// active subscription is an error so clients can surface it.
func (s *AccountService) CancelSubscription(ctx context.Context, userID string) (*Plan, error) {
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsSubscribed {
		return nil, ErrNotSubscribed
	}
	if err := repo.UpdateUserFields(ctx, s.DB, userID, map[string]any{
		"is_subscribed":       false,
		"subscription_type":   "",
		"subscription_expiry": nil,
	}); err != nil {
		return nil, err
	}
	return &Plan{}, nil
}

// planOf projects the subscription columns out of a user row.
func planOf(u *domain.User) *Plan {
	return &Plan{
		IsSubscribed:       u.IsSubscribed,
		SubscriptionType:   u.SubscriptionType,
		SubscriptionExpiry: u.SubscriptionExpiry,
	}
}

// timeNow tolerates zero-value construction (struct literal without the
// constructor).
func (s *AccountService) timeNow() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *AccountService) minPassword() int {
	if s.MinPassword > 0 {
		return s.MinPassword
	}
	return 6
}

func (s *AccountService) bcryptCost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// normalizeEmail lowercases and trims an address for storage and lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
