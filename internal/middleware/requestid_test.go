package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntr/volunteer-api/internal/middleware"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	requestIDRouter().ServeHTTP(w, req)

	rid := w.Header().Get(middleware.HeaderXRequestID)
	require.NotEmpty(t, rid)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestRequestIDHonorsValidInboundID(t *testing.T) {
	inbound := uuid.New().String()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderXRequestID, inbound)
	requestIDRouter().ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get(middleware.HeaderXRequestID))
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderXRequestID, "not-a-uuid\ninjected=true")
	requestIDRouter().ServeHTTP(w, req)

	rid := w.Header().Get(middleware.HeaderXRequestID)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}
