package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/TalentScreen/internal/application/evaluation"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/testutil"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

type stubEvaluationService struct {
	result *evaluation.Result
	report *submission.Submission
	err    error
}

func (s *stubEvaluationService) EvaluateSubmission(context.Context, string) (*evaluation.Result, error) {
	return s.result, s.err
}

func (s *stubEvaluationService) GetReport(context.Context, string) (*submission.Submission, error) {
	return s.report, s.err
}

func newEvaluationRouter(svc evaluation.Service) http.Handler {
	h := NewEvaluationHandler(svc, testutil.NewMockLogger())
	r := chi.NewRouter()
	r.Post("/api/v1/submissions/{submissionID}/evaluate", h.Evaluate)
	r.Get("/api/v1/submissions/{submissionID}/report", h.Report)
	return r
}

func TestEvaluationHandler_Evaluate(t *testing.T) {
	svc := &stubEvaluationService{result: &evaluation.Result{
		SubmissionID: "sub-1",
		Status:       submission.StatusEvaluated,
	}}
	router := newEvaluationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/evaluate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got evaluation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sub-1", got.SubmissionID)
	assert.Equal(t, submission.StatusEvaluated, got.Status)
}

func TestEvaluationHandler_Evaluate_NotFound(t *testing.T) {
	svc := &stubEvaluationService{err: errors.Newf(errors.ErrCodeSubmissionNotFound, "submission missing not found")}
	router := newEvaluationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/missing/evaluate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeSubmissionNotFound.String(), resp.Code)
	assert.Contains(t, resp.Message, "not found")
}

func TestEvaluationHandler_Evaluate_Conflict(t *testing.T) {
	svc := &stubEvaluationService{err: errors.New(errors.ErrCodeEvaluationInFlight, "evaluation already in flight")}
	router := newEvaluationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/evaluate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEvaluationHandler_Evaluate_PlainErrorIs500(t *testing.T) {
	svc := &stubEvaluationService{err: context.DeadlineExceeded}
	router := newEvaluationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/evaluate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEvaluationHandler_Report(t *testing.T) {
	svc := &stubEvaluationService{report: &submission.Submission{
		ID:           "sub-1",
		AssessmentID: "asmt-1",
		Status:       submission.StatusShortlisted,
	}}
	router := newEvaluationRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions/sub-1/report", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got submission.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sub-1", got.ID)
	assert.Equal(t, submission.StatusShortlisted, got.Status)
}
