package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/token"
)

type fakeVerifier struct {
	want    string
	payload token.Payload
}

func (f *fakeVerifier) Verify(raw string) (token.Payload, error) {
	if raw != f.want {
		return token.Payload{}, errors.New("bad token")
	}
	return f.payload, nil
}

func authRouter(t *testing.T) (*gin.Engine, *fakeVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fv := &fakeVerifier{
		want: "good-token",
		payload: token.Payload{
			UserID:   "user-1",
			Email:    "alice@example.com",
			Username: "alice",
		},
	}
	r := gin.New()
	r.Use(RequireAuth(fv))
	r.GET("/me", func(c *gin.Context) {
		id := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  UserIDFrom(c),
			"email":    id.Email,
			"username": id.Username,
		})
	})
	return r, fv
}

func TestRequireAuth_Rejections(t *testing.T) {
	r, _ := authRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token without scheme", "good-token"},
		{"invalid token", "Bearer nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d; want 401", w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json body: %v", err)
			}
			// Every rejection uses the same envelope so callers cannot probe.
			if body["success"] != false || body["error"] != "unauthorized" {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}
}

func TestRequireAuth_ValidToken_SetsIdentity(t *testing.T) {
	r, _ := authRouter(t)

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", scheme+" good-token")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("scheme %q: status = %d; want 200", scheme, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json body: %v", err)
		}
		if body["user_id"] != "user-1" || body["email"] != "alice@example.com" || body["username"] != "alice" {
			t.Fatalf("unexpected identity: %v", body)
		}
	}
}

func TestUserIDFrom_NoAuthGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/anon", func(c *gin.Context) {
		if got := UserIDFrom(c); got != "" {
			t.Fatalf("UserIDFrom without auth = %q; want empty", got)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func Test_bearerToken(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"Bearer":               "",
		"Bearer   ":            "",
		"Bearer abc":           "abc",
		"bearer abc":           "abc",
		"Basic abc":            "",
		"  Bearer abc  ":       "abc",
		"Bearer abc def":       "abc def",
		"Token abc":            "",
		"Bearer\tabc":          "",
		"BEARER xyz.token.sig": "xyz.token.sig",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("bearerToken(%q) = %q; want %q", header, got, want)
		}
	}
}
