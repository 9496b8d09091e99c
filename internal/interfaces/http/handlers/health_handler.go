package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is implemented by infrastructure components that can report
// their own connectivity.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
}

// NewHealthHandler creates a HealthHandler over the given dependency
// checkers.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers, version: version, startAt: time.Now()}
}

type livenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type componentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]componentCheck `json:"components,omitempty"`
}

// Liveness confirms the process is running.  It never checks dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, livenessResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Round(time.Second).String(),
	})
}

// Readiness probes every registered dependency.  Any failure yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]componentCheck, len(h.checkers))
	status := http.StatusOK
	overall := "ok"
	for _, c := range h.checkers {
		start := time.Now()
		check := componentCheck{Status: "ok"}
		if err := c.HealthCheck(ctx); err != nil {
			check.Status = "unavailable"
			check.Error = err.Error()
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		check.Latency = time.Since(start).Round(time.Millisecond).String()
		components[c.Name()] = check
	}

	writeJSON(w, status, readinessResponse{Status: overall, Components: components})
}
