package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func metricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/posts/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "a post")
	})
	r.GET("/empty", func(c *gin.Context) {
		// 204 leaves the response size at -1; the size histogram must skip it.
		c.Status(http.StatusNoContent)
	})
	return r
}

func hit(t *testing.T, r *gin.Engine, path string, wantStatus int) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != wantStatus {
		t.Fatalf("GET %s -> %d, want %d", path, w.Code, wantStatus)
	}
}

func TestMetrics_UsesRouteTemplateAsPathLabel(t *testing.T) {
	r := metricsRouter()

	// Counters are package globals shared across tests; compare against a
	// baseline instead of absolute values.
	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/posts/:id", "200"))
	hit(t, r, "/posts/abc", http.StatusOK)
	hit(t, r, "/posts/def", http.StatusOK)

	got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/posts/:id", "200"))
	if got != base+2 {
		t.Fatalf("counter for route template = %v, want %v", got, base+2)
	}
}

func TestMetrics_UnmatchedRouteFallsBackToRawPath(t *testing.T) {
	r := metricsRouter()

	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/missing", "404"))
	hit(t, r, "/missing", http.StatusNotFound)

	got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/missing", "404"))
	if got != base+1 {
		t.Fatalf("counter for unmatched path = %v, want %v", got, base+1)
	}
}

func TestMetrics_InflightSettlesAndBodylessResponsesSkipped(t *testing.T) {
	r := metricsRouter()

	// Exercises the size<0 skip branch.
	hit(t, r, "/empty", http.StatusNoContent)

	if inflight := testutil.ToFloat64(httpInflight); inflight != 0 {
		t.Fatalf("inflight gauge = %v after requests completed, want 0", inflight)
	}
}
