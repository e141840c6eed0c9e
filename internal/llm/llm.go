// Package llm contains thin HTTP clients for the hosted completion providers
// the chat endpoints proxy to: Groq (OpenAI-compatible chat completions) and
// Google Gemini (generateContent). Both implement Provider, so services depend
// on the interface and tests substitute a stub.
package llm

import (
	"context"
	"errors"
)

// Message is a single conversation turn sent to a provider.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// Provider produces a completion for an ordered list of turns.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrNotConfigured is returned by a client whose API key is missing. The HTTP
// layer maps it to 503 so a half-configured deployment fails loudly but safely.
var ErrNotConfigured = errors.New("llm provider not configured")

// ErrEmptyCompletion is returned when a provider answers 200 with no usable
// text.
var ErrEmptyCompletion = errors.New("empty completion from provider")
