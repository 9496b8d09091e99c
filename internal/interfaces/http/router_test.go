package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/TalentScreen/internal/application/evaluation"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/TalentScreen/internal/interfaces/http/handlers"
	"github.com/turtacn/TalentScreen/internal/testutil"
)

type routerStubService struct{}

func (routerStubService) EvaluateSubmission(context.Context, string) (*evaluation.Result, error) {
	return &evaluation.Result{SubmissionID: "sub-1", Status: submission.StatusEvaluated}, nil
}

func (routerStubService) GetReport(context.Context, string) (*submission.Submission, error) {
	return &submission.Submission{ID: "sub-1"}, nil
}

func testRouter() http.Handler {
	log := testutil.NewMockLogger()
	return NewRouter(RouterConfig{
		EvaluationHandler: handlers.NewEvaluationHandler(routerStubService{}, log),
		HealthHandler:     handlers.NewHealthHandler("test"),
		Logger:            log,
		Metrics:           prometheus.NewMetrics(),
	})
}

func TestRouter_MountsAPIRoutes(t *testing.T) {
	router := testRouter()

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/api/v1/submissions/sub-1/evaluate", http.StatusOK},
		{http.MethodGet, "/api/v1/submissions/sub-1/report", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/submissions/sub-1/evaluate", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equalf(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_MetricsEndpointExposesRequestCounters(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/evaluate", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "talentscreen_http_requests_total")
}

func TestRouter_NilHandlersLeaveRoutesUnmounted(t *testing.T) {
	router := NewRouter(RouterConfig{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
