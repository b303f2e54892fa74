package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and count per route template. CORS preflights
// are not counted.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		labels := []string{c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status())}
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}

// routeLabel keeps cardinality bounded: /api/notes/:id, never the raw id.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
