package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/api/middleware"
	"github.com/shine-music/shine-indexer/internal/mocks"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func get(router http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_Generated(t *testing.T) {
	router := newRouter(middleware.RequestID())

	rec := get(router, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(middleware.RequestIDHeader), 26)
}

func TestRequestID_Propagated(t *testing.T) {
	router := newRouter(middleware.RequestID())

	rec := get(router, "/ping", http.Header{middleware.RequestIDHeader: []string{"req-123"}})
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	router := newRouter(middleware.RequestID(), middleware.Recovery(), middleware.Logger())

	rec := get(router, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRateLimit_Allowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().
		Allow(gomock.Any(), "shine:ratelimit:192.0.2.1", redis_rate.PerMinute(60)).
		Return(&redis_rate.Result{Allowed: 1, Remaining: 59}, nil)

	router := newRouter(middleware.RateLimit(limiter, 60))

	rec := get(router, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_Exceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 0, Remaining: 0, RetryAfter: 2500 * time.Millisecond}, nil)

	router := newRouter(middleware.RateLimit(limiter, 60))

	rec := get(router, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestRateLimit_RedisUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("dial tcp: connection refused"))

	router := newRouter(middleware.RateLimit(limiter, 60))

	rec := get(router, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupCORS_Preflight(t *testing.T) {
	router := newRouter(middleware.SetupCORS(nil))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://shine.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupCORS_RestrictedOrigins(t *testing.T) {
	router := newRouter(middleware.SetupCORS([]string{"https://shine.example"}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	allowed := preflight("https://shine.example")
	assert.Equal(t, http.StatusNoContent, allowed.Code)
	assert.Equal(t, "https://shine.example", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := preflight("https://other.example")
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}
