package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// requestID assigns every request a UUID, reusing a valid incoming one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// instrument counts requests and logs them once they complete.
func instrument(m *Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		code := c.Writer.Status()
		m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()

		logger.Info("request",
			"method", c.Request.Method,
			"path", endpoint,
			"status", code,
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey))
	}
}
