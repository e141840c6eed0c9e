package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLogs swaps the global logger for a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func loggedRouter(mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, m := range mws {
		r.Use(m)
	}
	return r
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	r := loggedRouter(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		if v, ok := c.Get(requestIDKey); !ok || v == "" {
			t.Fatalf("request id missing from context")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rid", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("no %s header on response", requestIDHeader)
	}
}

func TestRequestID_PropagatesCallerValue(t *testing.T) {
	r := loggedRouter(RequestID())
	r.GET("/rid", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, header := range []string{requestIDHeader, strings.ToLower(requestIDHeader)} {
		req := httptest.NewRequest(http.MethodGet, "/rid", nil)
		req.Header.Set(header, "corr-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(requestIDHeader); got != "corr-42" {
			t.Fatalf("header %q: response id = %q, want corr-42", header, got)
		}
	}
}

func TestLogger_LevelByOutcome(t *testing.T) {
	buf := captureLogs(t)
	r := loggedRouter(RequestID(), Logger())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("broken"))
		c.Status(http.StatusBadRequest)
	})

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) || !strings.Contains(logs, `"path":"/ok"`) {
		t.Fatalf("missing info line for matched route:\n%s", logs)
	}
	// Unmatched routes log the raw URL at warn.
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"path":"/missing"`) {
		t.Fatalf("missing warn line with raw-path fallback:\n%s", logs)
	}
	// Collected gin errors escalate to error level.
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, "broken") {
		t.Fatalf("missing error line for handler error:\n%s", logs)
	}
}

func TestLoggerFrom_RequestScopedAndFallback(t *testing.T) {
	buf := captureLogs(t)
	r := loggedRouter(RequestID(), Logger())
	r.GET("/scoped", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("from handler")
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scoped", nil))
	if out := buf.String(); !strings.Contains(out, "from handler") || !strings.Contains(out, `"request_id"`) {
		t.Fatalf("scoped logger lacks request fields:\n%s", out)
	}

	// Without Logger() in the chain the fallback logger still works, minus the
	// request fields.
	buf2 := captureLogs(t)
	r2 := loggedRouter(RequestID())
	r2.GET("/bare", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("bare")
		c.Status(http.StatusOK)
	})
	w2 := httptest.NewRecorder()
	r2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/bare", nil))
	if out := buf2.String(); !strings.Contains(out, "bare") || strings.Contains(out, `"request_id"`) {
		t.Fatalf("fallback logger behaved unexpectedly:\n%s", out)
	}
}

func TestRecovery_EnvelopeAndLog(t *testing.T) {
	buf := captureLogs(t)
	r := loggedRouter(RequestID(), Logger(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kitchen fire") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	rid, _ := body["request_id"].(string)
	if body["success"] != false || body["error"] != "internal_error" || rid == "" {
		t.Fatalf("envelope: %+v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged:\n%s", buf.String())
	}
}

func TestRecovery_PanicAfterWriteSkipsEnvelope(t *testing.T) {
	captureLogs(t)
	r := loggedRouter(RequestID(), Logger(), Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("too late")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	// The body was already flushed; no JSON envelope may be appended.
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("envelope written after partial response: %q", w.Body.String())
	}
}

func TestTruncateAndAsString(t *testing.T) {
	if asString("abc") != "abc" || asString(7) != "" || asString(nil) != "" {
		t.Fatalf("asString conversions wrong")
	}
	if truncate("short", 10) != "short" {
		t.Fatalf("truncate altered a short string")
	}
	if got := truncate("abcdefgh", 4); got != "abcd…" {
		t.Fatalf("truncate = %q", got)
	}
	if truncate("anything", 0) != "anything" {
		t.Fatalf("truncate with max 0 should disable")
	}
}
