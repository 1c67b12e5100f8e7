package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one structured line per request.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ClientIP(c),
			"request_id": c.GetString("request_id"),
		}
		if uid := UserID(c); uid != "" {
			fields["user_id"] = uid
		}
		entry := logger.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("request failed")
		case c.Writer.Status() >= 500:
			entry.Error("request")
		case c.Writer.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
