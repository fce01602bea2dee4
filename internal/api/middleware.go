package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dengue-alert-service/internal/logging"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestLoggingMiddleware tags each request with an ID, echoed back in
// X-Request-ID, and logs method, path, status and latency.
func RequestLoggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		entry := logger.WithRequest(requestID)
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			entry.Warnf("Request: %s %s, Status: %d, Latency: %v", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		entry.Infof("Request: %s %s, Status: %d, Latency: %v", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
