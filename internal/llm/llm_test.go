package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGroqComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth = %q", got)
		}
		var req oaiChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" hello "}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "test-key", "test-model")
	out, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hello" {
		t.Fatalf("out = %q, want trimmed hello", out)
	}
}

func TestGroqComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "k", "m")
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected api error with message, got %v", err)
	}
}

func TestGroqComplete_NoKey(t *testing.T) {
	c := NewGroqClient("http://localhost", "", "m")
	if _, err := c.Complete(context.Background(), nil); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGroqComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "k", "m")
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}); err != ErrEmptyCompletion {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestGeminiComplete_RoleMapping(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"answer"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "models/test-model")
	c.baseURL = srv.URL

	out, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "cook well"},
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "answer" {
		t.Fatalf("out = %q", out)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "cook well" {
		t.Fatalf("system instruction not folded: %+v", got.SystemInstruction)
	}
	if len(got.Contents) != 3 {
		t.Fatalf("contents = %d, want 3", len(got.Contents))
	}
	if got.Contents[1].Role != "model" {
		t.Fatalf("assistant turn mapped to %q, want model", got.Contents[1].Role)
	}
}

func TestGeminiComplete_NoKey(t *testing.T) {
	c := NewGeminiClient("", "m")
	if _, err := c.Complete(context.Background(), nil); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
