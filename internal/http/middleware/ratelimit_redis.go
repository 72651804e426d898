package middleware

import (
	"net/http"
	"strconv"
	"time"

	"bank_transactions/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimit implements a fixed-window rate limiter shared by all replicas using INCR/EXPIRE.
// key format: rl:<window_seconds>:<client_ip>
// Redis errors fail open.
func RedisRateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := c.ClientIP()
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
		ctx := c.Request.Context()

		val, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.WithContext(ctx).Warn("rate limiter unavailable", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			// first hit in this window
			client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			abortTooManyRequests(c, window)
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

func abortTooManyRequests(c *gin.Context, window time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"status":  http.StatusTooManyRequests,
		"message": "Rate limit exceeded",
	})
}
