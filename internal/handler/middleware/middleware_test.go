package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen service.RequestMeta
	r.GET("/ping", func(c *gin.Context) {
		seen = service.RequestMetaFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected a generated request id")
		}
		if seen.RequestID != id {
			t.Errorf("context request id = %q, want %q", seen.RequestID, id)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := serve(r, req)
		if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("request id = %q, want abc-123", got)
		}
		if seen.IPAddress == "" {
			t.Error("client ip missing from request meta")
		}
	})
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(ctx, config.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, code := range want {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); w.Code != code {
			t.Errorf("request %d: status = %d, want %d", i, w.Code, code)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(ctx, config.RateLimitConfig{})))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.NewCollector("medschedule_test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/doctors/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, httptest.NewRequest(http.MethodGet, "/api/doctors/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/doctors/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if v := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/api/doctors/:id", "404")); v != 2 {
		t.Errorf("templated count = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")); v != 1 {
		t.Errorf("unmatched count = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.InFlightGauge); v != 0 {
		t.Errorf("in flight = %v, want 0", v)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	if w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil)); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         time.Hour,
	}))
	r.POST("/api/doctor", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/doctor", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
