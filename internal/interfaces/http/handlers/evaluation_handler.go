package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/TalentScreen/internal/application/evaluation"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

// EvaluationHandler serves the evaluation trigger and report endpoints.
type EvaluationHandler struct {
	service evaluation.Service
	logger  logging.Logger
}

// NewEvaluationHandler creates an EvaluationHandler.
func NewEvaluationHandler(service evaluation.Service, log logging.Logger) *EvaluationHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &EvaluationHandler{service: service, logger: log.Named("http.evaluation")}
}

// Evaluate handles POST /api/v1/submissions/{submissionID}/evaluate.
// The run is synchronous; the response carries the full evaluation result.
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")
	if submissionID == "" {
		writeError(w, errors.New(errors.ErrCodeBadRequest, "submission id is required"))
		return
	}

	result, err := h.service.EvaluateSubmission(r.Context(), submissionID)
	if err != nil {
		if !errors.IsNotFound(err) && !errors.IsConflict(err) {
			h.logger.Error("evaluation request failed",
				logging.String("submission_id", submissionID), logging.Err(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Report handles GET /api/v1/submissions/{submissionID}/report, returning
// the submission with all persisted evaluation annotations.
func (h *EvaluationHandler) Report(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")
	if submissionID == "" {
		writeError(w, errors.New(errors.ErrCodeBadRequest, "submission id is required"))
		return
	}

	sub, err := h.service.GetReport(r.Context(), submissionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
