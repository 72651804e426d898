package middleware

import (
	"time"

	"bank_transactions/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger tags each request with an id (reusing a valid incoming X-Request-ID),
// stores a request-scoped logger in the context and writes one access log line.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		log := logger.With("request_id", id)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), log))

		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// RequestID returns the id assigned by RequestLogger, or "" outside it
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
