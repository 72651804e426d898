package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit is the in-process fallback used when Redis is not configured.
// Same fixed-window semantics as RedisRateLimit, but per replica.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientInfo)
		sweep   = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		// forget idle clients once per window so the map does not grow forever
		if now.Sub(sweep) > window {
			for k, ci := range clients {
				if now.Sub(ci.start) > window {
					delete(clients, k)
				}
			}
			sweep = now
		}

		ci, ok := clients[ip]
		if !ok || now.Sub(ci.start) > window {
			ci = &clientInfo{start: now}
			clients[ip] = ci
		}
		ci.count++
		count := ci.count
		mu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-count)))

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			abortTooManyRequests(c, window)
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
