package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caymanbizevents/events-api/internal/service"
)

// Metrics records duration and status for every request. A nil service turns
// the middleware into a pass-through.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Label by route template so /event/:id stays one series.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
