package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gorunnable/observability"
)

// UnmatchedRoute labels requests that matched no registered route.
const UnmatchedRoute = "unmatched"

// RequestMetrics records every request on m under its route template
// (e.g. "/v1/pipelines/:name/invoke"), so the route label stays bounded.
// It must be installed with engine.Use before routes are registered.
func RequestMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRoute
		}
		m.RecordRequest(c.Request.Context(), route, c.Writer.Status(), time.Since(start))
	}
}
