package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/voluntr/volunteer-api/internal/middleware"
)

func rateLimitedRouter(config middleware.RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(config).RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func pingFrom(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitRejectsAboveBurst(t *testing.T) {
	r := rateLimitedRouter(middleware.RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 2})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:1234"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := rateLimitedRouter(middleware.RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:5678"))

	// a different address gets its own bucket
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.2:1234"))
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	r := rateLimitedRouter(middleware.RateLimiterConfig{Rate: rate.Every(10 * time.Millisecond), Burst: 1})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:1234"))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
}
