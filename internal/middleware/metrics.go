package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gymstack/studio-ops-api/internal/service"
)

// Metrics records per-route latency and counts. The route template
// (e.g. /attendance/:id/cancel) is used as the path label so attendance IDs
// do not explode the cardinality; unmatched routes fall back to the raw path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
