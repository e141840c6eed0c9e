// Package token implements the stateless session tokens used by the API:
// HS256-signed JWTs carrying the user's identity, plus the short random codes
// used for email verification and password reset.
//
// Verification never panics and never returns a partially decoded payload:
// any malformed, expired, or wrongly signed token yields ErrInvalidToken.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every failure mode: expired,
// malformed, wrong signature, or wrong signing method. Callers should not
// distinguish further; the HTTP layer maps it to a single 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// Payload is the identity encoded in a session token. It is the entire
// authorization signal: handlers downstream decide what this identity may do.
type Payload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type claims struct {
	Payload
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens with a shared secret.
// It is stateless and safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// now is swappable in tests.
	now func() time.Time
}

// NewService builds a token Service. TTL defaults to 7 days when
// non-positive.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "pirinku-api",
		now:    time.Now,
	}
}

// Issue signs a token for the given identity, valid for the configured TTL.
func (s *Service) Issue(p Payload) (string, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return "", errors.New("token payload requires a user id")
	}
	now := s.now().UTC()
	c := claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify parses and validates a token and returns the embedded identity.
// All failures collapse to ErrInvalidToken.
func (s *Service) Verify(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrInvalidToken
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid || c.UserID == "" {
		return Payload{}, ErrInvalidToken
	}
	return c.Payload, nil
}

// GenerateOTP returns a 6-digit numeric verification code drawn uniformly
// from [100000, 999999] using crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return formatCode(code), nil
}

// GenerateResetToken returns an opaque random hex string. Kept for the legacy
// link-based reset flow; the OTP-based flow is what the handlers use.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func formatCode(n int64) string {
	// n is always six digits here; avoid fmt for a hot-ish path.
	var b [6]byte
	for i := 5; i >= 0; i-- {
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[:])
}
