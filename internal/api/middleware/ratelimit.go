package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	apierrors "github.com/shine-music/shine-indexer/internal/api/shared/errors"
	"github.com/shine-music/shine-indexer/internal/logger"
)

// RateLimit limits requests per client IP with a shared Redis counter.
// Requests are let through when Redis is unavailable.
func RateLimit(limiter adapter.RedisRateLimiter, perMinute int) gin.HandlerFunc {
	limit := redis_rate.PerMinute(perMinute)
	return func(c *gin.Context) {
		key := "shine:ratelimit:" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierrors.NewTooManyRequestsError("Rate limit exceeded"))
			return
		}
		c.Next()
	}
}
