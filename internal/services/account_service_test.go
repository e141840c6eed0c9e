package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pirinku/go-recipe-backend/internal/repo"
)

func newAccountService(t *testing.T, mail *fakeMailer) *AccountService {
	t.Helper()
	svc := NewAccountService(newServiceDB(t), mail)
	svc.BcryptCost = bcrypt.MinCost // keep tests fast
	return svc
}

func TestRegister_CreatesUnverifiedAndSendsCode(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)

	u, err := svc.Register(context.Background(), "alice", "Alice A", "Alice@Example.COM", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if u.IsVerified {
		t.Fatalf("new account must start unverified")
	}
	if u.PasswordHash == "secret1" || u.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}
	if len(mail.otpCalls) != 1 || mail.otpCalls[0].to != "alice@example.com" {
		t.Fatalf("expected one OTP email, got %+v", mail.otpCalls)
	}
	if len(mail.otpCalls[0].code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", mail.otpCalls[0].code)
	}
}

func TestRegister_Conflicts(t *testing.T) {
	svc := newAccountService(t, &fakeMailer{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "A", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "A", "alice@example.com", "secret1"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "A", "other@example.com", "secret1"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newAccountService(t, &fakeMailer{})
	if _, err := svc.Register(context.Background(), "bob", "B", "bob@example.com", "12345"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_EmailFailureRollsBack(t *testing.T) {
	mail := &fakeMailer{fail: true}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "C", "carol@example.com", "secret1"); !errors.Is(err, ErrEmailDelivery) {
		t.Fatalf("expected ErrEmailDelivery, got %v", err)
	}

	// The address must be free for a retry once email works again.
	mail.fail = false
	if _, err := svc.Register(ctx, "carol", "C", "carol@example.com", "secret1"); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
}

func TestVerifyEmail_Flow(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dana", "D", "dana@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code := mail.otpCalls[0].code

	if _, err := svc.VerifyEmail(ctx, "dana@example.com", "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for wrong code, got %v", err)
	}
	u, err := svc.VerifyEmail(ctx, "Dana@Example.com", code)
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !u.IsVerified {
		t.Fatalf("expected verified account")
	}
	if _, err := svc.VerifyEmail(ctx, "dana@example.com", code); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified on second verify, got %v", err)
	}
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	if _, err := svc.Register(ctx, "erin", "E", "erin@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc.now = func() time.Time { return base.Add(11 * time.Minute) }
	if _, err := svc.VerifyEmail(ctx, "erin@example.com", mail.otpCalls[0].code); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for expired code, got %v", err)
	}
}

func TestResendOTP_ReplacesCode(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "finn", "F", "finn@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ResendOTP(ctx, "finn@example.com"); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	if len(mail.otpCalls) != 2 {
		t.Fatalf("expected 2 OTP emails, got %d", len(mail.otpCalls))
	}
	// The first code must no longer work.
	if mail.otpCalls[0].code != mail.otpCalls[1].code {
		if _, err := svc.VerifyEmail(ctx, "finn@example.com", mail.otpCalls[0].code); !errors.Is(err, ErrInvalidOTP) {
			t.Fatalf("expected old code rejected, got %v", err)
		}
	}
	if _, err := svc.VerifyEmail(ctx, "finn@example.com", mail.otpCalls[1].code); err != nil {
		t.Fatalf("verify with fresh code: %v", err)
	}
}

func TestLogin_Outcomes(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "gail", "G", "gail@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "gail@example.com", "secret1"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified before verification, got %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, "gail@example.com", mail.otpCalls[0].code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if _, err := svc.Login(ctx, "gail@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	u, err := svc.Login(ctx, "GAIL@example.com", "secret1")
	if err != nil || u.Username != "gail" {
		t.Fatalf("login: %+v, %v", u, err)
	}
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if len(mail.resetCalls) != 0 {
		t.Fatalf("no email should be sent for unknown address")
	}
}

func TestResetPassword_Flow(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "hana", "H", "hana@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, "hana@example.com", mail.otpCalls[0].code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "hana@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(mail.resetCalls) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mail.resetCalls))
	}
	code := mail.resetCalls[0].code

	if err := svc.ResetPassword(ctx, "hana@example.com", "000000", "newsecret"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for wrong code, got %v", err)
	}
	if err := svc.ResetPassword(ctx, "hana@example.com", code, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ResetPassword(ctx, "hana@example.com", code, "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// New password works, old one does not, code is spent.
	if _, err := svc.Login(ctx, "hana@example.com", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "hana@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
	if err := svc.ResetPassword(ctx, "hana@example.com", code, "another1"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected spent code rejected, got %v", err)
	}
}

func TestPlan_SubscribeAndCancel(t *testing.T) {
	svc := newAccountService(t, &fakeMailer{})
	ctx := context.Background()
	u := seedAccount(t, svc.DB, "paula")

	p, err := svc.GetPlan(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if p.IsSubscribed || p.SubscriptionType != "" || p.SubscriptionExpiry != nil {
		t.Fatalf("new account must start unsubscribed, got %+v", p)
	}

	if _, err := svc.Subscribe(ctx, u.ID, "   ", time.Now().Add(time.Hour)); !errors.Is(err, ErrPlanTypeRequired) {
		t.Fatalf("expected ErrPlanTypeRequired for blank type, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, u.ID, "premium", time.Now().Add(-time.Hour)); !errors.Is(err, ErrExpiryNotFuture) {
		t.Fatalf("expected ErrExpiryNotFuture for past expiry, got %v", err)
	}

	expiry := time.Now().Add(30 * 24 * time.Hour)
	p, err = svc.Subscribe(ctx, u.ID, "premium", expiry)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !p.IsSubscribed || p.SubscriptionType != "premium" || p.SubscriptionExpiry == nil {
		t.Fatalf("unexpected plan after subscribe: %+v", p)
	}

	got, err := svc.GetPlan(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPlan after subscribe: %v", err)
	}
	if !got.IsSubscribed || got.SubscriptionType != "premium" || got.SubscriptionExpiry == nil {
		t.Fatalf("plan not persisted: %+v", got)
	}

	p, err = svc.CancelSubscription(ctx, u.ID)
	if err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
	if p.IsSubscribed || p.SubscriptionType != "" || p.SubscriptionExpiry != nil {
		t.Fatalf("cancel did not clear the plan: %+v", p)
	}
	got, err = svc.GetPlan(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPlan after cancel: %v", err)
	}
	if got.IsSubscribed || got.SubscriptionType != "" || got.SubscriptionExpiry != nil {
		t.Fatalf("cancel not persisted: %+v", got)
	}

	if _, err := svc.CancelSubscription(ctx, u.ID); !errors.Is(err, ErrNotSubscribed) {
		t.Fatalf("expected ErrNotSubscribed on second cancel, got %v", err)
	}
	if _, err := svc.GetPlan(ctx, "nope"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, "nope", "premium", expiry); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestGetProfile_Counts(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	a, err := svc.Register(ctx, "ivy", "I", "ivy@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	b, err := svc.Register(ctx, "jack", "J", "jack@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := repo.ToggleFollow(ctx, svc.DB, b.ID, a.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := repo.CreatePost(ctx, svc.DB, a.ID, "hello", ""); err != nil {
		t.Fatalf("post: %v", err)
	}

	p, err := svc.GetProfile(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.FollowersCount != 1 || p.FollowingCount != 0 || p.PostsCount != 1 {
		t.Fatalf("unexpected counts: %+v", p)
	}
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	mail := &fakeMailer{}
	svc := newAccountService(t, mail)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kate", "Kate", "kate@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bio := "  home cook  "
	got, err := svc.UpdateProfile(ctx, u.ID, nil, &bio, nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Bio != "home cook" {
		t.Fatalf("bio = %q", got.Bio)
	}
	if got.FullName != "Kate" {
		t.Fatalf("full name changed unexpectedly: %q", got.FullName)
	}

	if _, err := svc.UpdateProfile(ctx, "missing", nil, &bio, nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
