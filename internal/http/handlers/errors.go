// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are the stable, machine-readable half of the error
// envelope (see response.go). Codes are lowercase snake_case; generic codes
// mirror common HTTP status semantics, and domain-specific codes cover
// business failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeNotVerified      = "email_not_verified"
	ErrCodeInvalidOTP       = "invalid_otp"
	ErrCodeEmailFailed      = "email_delivery_failed"
	ErrCodeAnswerFailed     = "answer_failed"
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
