// Auth HTTP handlers.
//
// This file exposes the public account endpoints:
//   - POST /api/auth/create-account  (register, sends verification code)
//   - POST /api/auth/verify-otp      (verify email with the 6-digit code)
//   - POST /api/auth/resend-otp      (issue a fresh code)
//   - POST /api/auth/login           (issue a session token)
//   - POST /api/auth/forgot-password (send a reset code)
//   - POST /api/auth/reset-password  (replace password with a valid code)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/token"
)

// CreateAccountRequest is the JSON payload for registration.
type CreateAccountRequest struct {
	Username string `json:"username"  binding:"required,min=3,max=64"  example:"chef_ana"`
	FullName string `json:"full_name" binding:"required,min=1,max=128" example:"Ana Marku"`
	Email    string `json:"email"     binding:"required,email"         example:"ana@example.com"`
	Password string `json:"password"  binding:"required,min=6"         example:"s3cretpw"`
}

// VerifyOTPRequest carries the email/code pair for verification.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp"   binding:"required,len=6"`
}

// EmailRequest carries just an email address (resend, forgot-password).
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest is the JSON payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest carries a reset code and the replacement password.
type ResetPasswordRequest struct {
	Email       string `json:"email"        binding:"required,email"`
	OTP         string `json:"otp"          binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// LoginResponse is the success payload of POST /api/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// CreateAccount godoc
// @ID          createAccount
// @Summary     Register a new account
// @Description Creates an unverified account and emails a 6-digit verification code.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateAccountRequest  true  "Registration payload"
// @Success     201  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "Bad request"
// @Failure     409  {object}  handlers.Response  "Email or username taken"
// @Failure     502  {object}  handlers.Response  "Verification email failed"
// @Router      /auth/create-account [post]
func (h *Handlers) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, full_name, email, and password (min 6 chars) are required")
		return
	}

	u, err := h.accounts.Register(c.Request.Context(), req.Username, req.FullName, req.Email, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "account created, verification code sent", u)
}

// VerifyOTP godoc
// @ID          verifyOTP
// @Summary     Verify an email address
// @Description Checks the signup code, marks the account verified, and issues a session token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.VerifyOTPRequest  true  "Email and code"
// @Success     200  {object}  handlers.Response{data=handlers.LoginResponse}
// @Failure     400  {object}  handlers.Response  "Invalid or expired code"
// @Failure     404  {object}  handlers.Response  "Unknown email"
// @Router      /auth/verify-otp [post]
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and 6-digit otp are required")
		return
	}

	u, err := h.accounts.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		failFromErr(c, err)
		return
	}
	// Log the user straight in so the client skips a second round trip.
	tok, err := h.tokens.Issue(token.Payload{UserID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return
	}
	ok(c, http.StatusOK, "email verified", LoginResponse{Token: tok, User: u})
}

// ResendOTP godoc
// @ID          resendOTP
// @Summary     Resend the verification code
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.EmailRequest  true  "Email"
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "Already verified"
// @Failure     404  {object}  handlers.Response  "Unknown email"
// @Router      /auth/resend-otp [post]
func (h *Handlers) ResendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email is required")
		return
	}

	if err := h.accounts.ResendOTP(c.Request.Context(), req.Email); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "verification code sent", nil)
}

// Login godoc
// @ID          login
// @Summary     Authenticate and receive a session token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  handlers.Response{data=handlers.LoginResponse}
// @Failure     401  {object}  handlers.Response  "Invalid credentials"
// @Failure     403  {object}  handlers.Response  "Email not verified"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	u, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	tok, err := h.tokens.Issue(token.Payload{UserID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return
	}
	ok(c, http.StatusOK, "login successful", LoginResponse{Token: tok, User: u})
}

// ForgotPassword godoc
// @ID          forgotPassword
// @Summary     Request a password-reset code
// @Description Always responds 200 for well-formed requests so account existence cannot be probed.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.EmailRequest  true  "Email"
// @Success     200  {object}  handlers.Response
// @Failure     502  {object}  handlers.Response  "Reset email failed"
// @Router      /auth/forgot-password [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email is required")
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "if the email exists, a reset code was sent", nil)
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Reset the password with a valid code
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ResetPasswordRequest  true  "Email, code, new password"
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "Invalid or expired code"
// @Router      /auth/reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email, otp, and new_password (min 6 chars) are required")
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Email, strings.TrimSpace(req.OTP), req.NewPassword); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "password updated", nil)
}
