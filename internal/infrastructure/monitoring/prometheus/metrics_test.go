package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetrics_RegistersAllCollectors(t *testing.T) {
	m := NewMetrics()

	m.EvaluationsTotal.WithLabelValues("ok").Inc()
	m.PlagiarismFlags.Inc()
	m.BotClassifications.Inc()
	m.GraderRequests.WithLabelValues("ok").Inc()
	m.ObserveStage("scoring", time.Now().Add(-50*time.Millisecond))
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/submissions/{submissionID}/report", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/api/v1/submissions/{submissionID}/report").Observe(0.01)

	output := scrape(t, m)
	assert.Contains(t, output, `talentscreen_evaluations_total{outcome="ok"} 1`)
	assert.Contains(t, output, "talentscreen_plagiarism_flags_total 1")
	assert.Contains(t, output, "talentscreen_bot_classifications_total 1")
	assert.Contains(t, output, `talentscreen_grader_requests_total{result="ok"} 1`)
	assert.Contains(t, output, `stage="scoring"`)
	assert.Contains(t, output, "talentscreen_http_requests_total")
}

func TestNewMetrics_IncludesRuntimeCollectors(t *testing.T) {
	output := scrape(t, NewMetrics())
	assert.Contains(t, output, "go_goroutines")
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.PlagiarismFlags.Inc()

	assert.Contains(t, scrape(t, a), "talentscreen_plagiarism_flags_total 1")
	assert.Contains(t, scrape(t, b), "talentscreen_plagiarism_flags_total 0")
}
