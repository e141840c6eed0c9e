// Package services defines the business logic for accounts, posts, the social
// graph, recipe-chat conversations, and personalization. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmailTaken indicates that an account with the given email already
	// exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates that the requested username is in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login when the email/password pair
	// does not match an account. It deliberately does not say which half was
	// wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotVerified is returned on login when the account exists but the
	// email has not been verified yet.
	ErrNotVerified = errors.New("email not verified")

	// ErrAlreadyVerified is returned when a verification code is requested for
	// an account that is already verified.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrInvalidOTP is returned when a verification or reset code does not
	// match, has expired, or was never issued.
	ErrInvalidOTP = errors.New("invalid or expired code")

	// ErrWeakPassword is returned when a password is shorter than the
	// configured minimum.
	ErrWeakPassword = errors.New("password too short")

	// ErrEmailDelivery is returned when a transactional email could not be
	// sent.
	ErrEmailDelivery = errors.New("could not send email")

	// ErrPlanTypeRequired is returned when subscribing without a plan type.
	ErrPlanTypeRequired = errors.New("subscription type is required")

	// ErrExpiryNotFuture is returned when a subscription expiry does not lie
	// in the future.
	ErrExpiryNotFuture = errors.New("subscription expiry must be in the future")

	// ErrNotSubscribed is returned when cancelling a subscription that is not
	// active.
	ErrNotSubscribed = errors.New("no active subscription")
)

// Post- and social-graph errors.
var (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrForbidden is returned when a user attempts to modify a resource they
	// do not own.
	ErrForbidden = errors.New("not allowed to modify this resource")

	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrEmptyContent is returned when a post or comment body is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrTooLong is returned when a post, comment, or prompt exceeds the
	// configured length limit.
	ErrTooLong = errors.New("content too long")
)

// Chat-related errors.
var (
	// ErrTitleNotFound indicates that the requested conversation thread does
	// not exist or is not accessible to the current user.
	ErrTitleNotFound = errors.New("conversation not found")

	// ErrHistoryNotFound indicates that the requested saved exchange does not
	// exist or is not accessible to the current user.
	ErrHistoryNotFound = errors.New("history not found")

	// ErrEmptyPrompt is returned when an assistant request contains an empty
	// prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Personalization errors.
var (
	// ErrPersonalizationNotFound indicates the user has not saved preferences
	// yet.
	ErrPersonalizationNotFound = errors.New("personalization not found")

	// ErrNoPreferenceFields is returned when a preference patch names no
	// fields.
	ErrNoPreferenceFields = errors.New("no fields to update")
)
