package model

import "time"

const (
	// HealthHealthy indicates the probe received an accepted status code.
	HealthHealthy = "healthy"
	// HealthUnhealthy indicates the probe was stopped before the deadline.
	HealthUnhealthy = "unhealthy"
	// HealthTimedOut indicates no accepted response arrived within the overall timeout.
	HealthTimedOut = "timed_out"
	// HealthSkipped indicates the probe never ran (pipeline failed beforehand).
	HealthSkipped = "skipped"
)

// HealthResult records the outcome of the post-deploy probe.
type HealthResult struct {
	State      string
	Endpoint   string
	StatusCode int
	Attempts   int
	Elapsed    time.Duration
	Err        error
}

// Passed reports whether the probe concluded the deployment is serving.
func (h *HealthResult) Passed() bool {
	return h != nil && h.State == HealthHealthy
}
