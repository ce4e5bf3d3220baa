package handlers

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"songsmith/backend/logger"
)

const (
	requestIDKey       = "request_id"
	requestIDHeader    = "X-Request-ID"
	sentryFlushTimeout = 2 * time.Second
)

// RequestTracking tags each request with an id and logs its outcome.
func RequestTracking(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		details := map[string]interface{}{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			log.Warn(logModule, "Request failed with server error", details)
		case status >= 400:
			log.Info(logModule, "Request failed with client error", details)
		default:
			log.Debug(logModule, "Request completed", details)
		}
	}
}

// SentryMiddleware reports panics to Sentry and re-panics so gin's recovery answers 500.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: sentryFlushTimeout,
	})
}
