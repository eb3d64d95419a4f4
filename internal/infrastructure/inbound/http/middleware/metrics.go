package middleware

import (
	"strconv"
	"time"

	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

func Metrics(metrics ports.MetricsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.IncrementHTTPRequests(c.Request.Method, route, status)
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, status, time.Since(start))
	}
}
