package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-route request counts and latency.  The route label
// is the chi pattern, so path parameters never explode cardinality.
func Metrics(m *prometheus.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := newWrappedResponseWriter(w)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			m.HTTPRequestsTotal.WithLabelValues(
				r.Method, route, strconv.Itoa(ww.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(
				r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
