package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies per route template.
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		recorder.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
