package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriconsulta/backend/internal/testhelpers"
)

func TestRateLimiter(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	gin.SetMode(gin.TestMode)

	limiter := NewRecipeGenerationRateLimiter(client, 2, time.Hour)
	router := gin.New()
	router.POST("/generate", limiter.Middleware(ClientIPKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send().Code)

	third := send()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))

	remaining, reset, err := limiter.GetRemainingRequests(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))

	remaining, _, err = limiter.GetRemainingRequests(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// nothing listens on this port
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	limiter := NewRecipeGenerationRateLimiter(client, 1, time.Minute)
	router := gin.New()
	router.POST("/generate", limiter.Middleware(ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterRetryAfterUsesLimiterClock(t *testing.T) {
	fixed := time.Date(2021, 3, 4, 10, 20, 0, 0, time.UTC)
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Hour, Limit: 1, KeyPrefix: "test"})
	limiter.now = func() time.Time { return fixed }

	_, windowStart := limiter.windowKey("10.0.0.1")
	reset := windowStart.Add(time.Hour)

	assert.Equal(t, 40*60, limiter.retryAfter(reset))
	assert.Equal(t, 0, limiter.retryAfter(fixed.Add(-time.Minute)))
}

func TestRateLimiterRejectionReportsRetryAfter(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	gin.SetMode(gin.TestMode)

	// a clock far from the wall clock shows retry_after follows the limiter
	fixed := time.Date(2021, 3, 4, 10, 59, 30, 0, time.UTC)
	limiter := NewRecipeGenerationRateLimiter(client, 1, time.Hour)
	limiter.now = func() time.Time { return fixed }

	router := gin.New()
	router.POST("/generate", limiter.Middleware(ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		router.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusNoContent, send().Code)
	rejected := send()
	require.Equal(t, http.StatusTooManyRequests, rejected.Code)

	var body struct {
		RetryAfter int `json:"retry_after"`
	}
	require.NoError(t, json.Unmarshal(rejected.Body.Bytes(), &body))
	assert.Equal(t, 30, body.RetryAfter)
}
