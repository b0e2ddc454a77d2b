package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/redis"
	"adopte-server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	messageCalls int
	authCalls    int
	allow        bool
}

func (l *countingLimiter) result() *redis.RateLimitResult {
	return &redis.RateLimitResult{
		Allowed:   l.allow,
		Remaining: 59,
		ResetIn:   30 * time.Second,
		Limit:     60,
	}
}

func (l *countingLimiter) AllowMessage(ctx context.Context, userID string) (*redis.RateLimitResult, error) {
	l.messageCalls++
	return l.result(), nil
}

func (l *countingLimiter) AllowAuth(ctx context.Context, ip string) (*redis.RateLimitResult, error) {
	l.authCalls++
	return l.result(), nil
}

func newMessageRoute(limiter RateLimiter, handled *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	userID := uuid.New()
	engine.POST("/messages",
		func(c *gin.Context) {
			ctx := services.WithPrincipal(c.Request.Context(), services.Principal{UserID: userID, Role: domain.RoleStudent})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		},
		MessageRateLimitMiddleware(limiter),
		func(c *gin.Context) {
			*handled++
			c.Status(http.StatusCreated)
		},
	)
	return engine
}

func TestMessageRateLimitChargesOncePerSend(t *testing.T) {
	limiter := &countingLimiter{allow: true}
	handled := 0
	engine := newMessageRoute(limiter, &handled)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/messages", nil)
		engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
	}

	assert.Equal(t, 2, handled)
	// one quota charge per request, never more
	assert.Equal(t, 2, limiter.messageCalls)
}

func TestMessageRateLimitRejectsOverQuota(t *testing.T) {
	limiter := &countingLimiter{allow: false}
	handled := 0
	engine := newMessageRoute(limiter, &handled)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, handled)
	assert.Equal(t, 1, limiter.messageCalls)
}
