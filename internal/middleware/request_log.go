package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
)

// RequestLogger writes one structured entry per request. 5xx responses log
// at error level and 4xx at warn.
func RequestLogger(logger *logging.LoggerV2) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		fields := logging.Fields{
			"method":      c.Request.Method,
			"path":        path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if id := RequestIDFromContext(c.Request.Context()); id != "" {
			fields["request_id"] = id
		}
		if userID, ok := UserID(c); ok {
			fields["user_id"] = userID
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", fields)
		case status >= 400:
			logger.Warn("HTTP request", fields)
		default:
			logger.Info("HTTP request", fields)
		}
	}
}
