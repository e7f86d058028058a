// Package endpoint holds the operational gin handlers.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gorunnable/observability"
)

// Health reports the service and its dependencies. A down dependency turns
// the response into a 503.
func Health(service, version string, timeout time.Duration, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := observability.CheckHealth(c.Request.Context(), service, version, timeout, checkers...)
		status := http.StatusOK
		if h.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, h)
	}
}
