// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the bearer-token auth gate. RequireAuth verifies the
// Authorization header against the token service and stores the caller's
// identity in the Gin context; protected handlers read it back with
// UserIDFrom / IdentityFrom and never touch the raw token.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/token"
)

// Context keys for the authenticated identity.
const (
	ctxUserIDKey   = "userID"
	ctxEmailKey    = "userEmail"
	ctxUsernameKey = "username"
)

// TokenVerifier is the contract RequireAuth needs from the token service.
type TokenVerifier interface {
	Verify(raw string) (token.Payload, error)
}

// RequireAuth returns a middleware that rejects requests without a valid
// bearer token. Every failure mode (missing header, malformed scheme, bad or
// expired token) yields the same 401 envelope so callers learn nothing about
// why.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			unauthorized(c)
			return
		}
		p, err := tokens.Verify(raw)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(ctxUserIDKey, p.UserID)
		c.Set(ctxEmailKey, p.Email)
		c.Set(ctxUsernameKey, p.Username)
		c.Next()
	}
}

// UserIDFrom returns the authenticated user's ID, or "" when the auth gate
// has not run on this request.
func UserIDFrom(c *gin.Context) string {
	v, _ := c.Get(ctxUserIDKey)
	return asString(v)
}

// IdentityFrom returns the full authenticated identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) token.Payload {
	return token.Payload{
		UserID:   UserIDFrom(c),
		Email:    asString(firstValue(c, ctxEmailKey)),
		Username: asString(firstValue(c, ctxUsernameKey)),
	}
}

func firstValue(c *gin.Context, key string) any {
	v, _ := c.Get(key)
	return v
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header, tolerating case variation in the scheme.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "authentication required",
		"error":   "unauthorized",
	})
}
