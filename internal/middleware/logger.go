package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger returns a middleware that logs failed requests using logrus
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		// SSE connections stay open for their whole lifetime
		if strings.HasSuffix(path, "/stream") {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < 400 {
			return
		}

		if raw != "" {
			path = path + "?" + raw
		}

		entry := logrus.WithFields(logrus.Fields{
			"status":    statusCode,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      path,
		})

		if statusCode >= 500 {
			entry.Error("Server error")
		} else {
			entry.Warn("Client error")
		}
	}
}
