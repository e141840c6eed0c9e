// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response envelope used across all endpoints.
// Every response, success or failure, is wrapped the same way so clients can
// branch on a single boolean:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "message": "posts retrieved", "data": { ... } }
//
//	HTTP/1.1 404 Not Found
//	{ "success": false, "message": "post not found", "error": "not_found",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000" }
//
// Conventions:
//   - Failure responses carry a stable machine-readable `error` code
//     (see errors.go constants) next to the human-readable message.
//   - fail() centralizes error formatting and logs 5xx responses with the
//     request-scoped logger.
//   - ok() wraps payloads so handlers never assemble envelopes by hand.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/http/middleware"
)

// Response is the standard envelope returned by all endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	// Error is a stable, machine-readable code (see errors.go constants).
	Error string `json:"error,omitempty" example:"not_found"`
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with a structured error envelope and logs
// server-side errors with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := Response{
		Success:   false,
		Message:   msg,
		Error:     code,
		RequestID: reqID,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success envelope with the given status, message, and payload.
// A nil body omits the data field.
func ok(c *gin.Context, status int, msg string, body any) {
	c.JSON(status, Response{Success: true, Message: msg, Data: body})
}
