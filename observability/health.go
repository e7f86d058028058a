package observability

import (
	"context"
	"time"
)

// HealthStatus is the state of a component or the whole process.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health reports one component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ServiceHealth is the body served on /health.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by dependencies that can report their health,
// such as the Redis cache store.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// CheckHealth runs every checker with a shared deadline and folds the
// results. Any down component marks the service down; otherwise any degraded
// component marks it degraded.
func CheckHealth(ctx context.Context, service, version string, timeout time.Duration, checkers ...HealthChecker) ServiceHealth {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sh := ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
	for _, c := range checkers {
		h := c.CheckHealth(ctx)
		sh.Components = append(sh.Components, h)
		switch {
		case h.Status == HealthStatusDown:
			sh.Status = HealthStatusDown
		case h.Status == HealthStatusDegraded && sh.Status == HealthStatusUp:
			sh.Status = HealthStatusDegraded
		}
	}
	return sh
}
