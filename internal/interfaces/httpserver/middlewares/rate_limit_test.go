package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(limitPerMinute float64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/data", RateLimitMiddleware(limitPerMinute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	router := rateLimitedRouter(5)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	router := rateLimitedRouter(2)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on limited response")
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	router := rateLimitedRouter(1)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	router.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first client should pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	router.ServeHTTP(second, req)
	if second.Code != http.StatusOK {
		t.Fatalf("a different client must not share the bucket, got %d", second.Code)
	}
}
