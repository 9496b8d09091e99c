// Package handlers contains the HTTP request handlers for the evaluation
// API surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/TalentScreen/pkg/errors"
)

// errorResponse is the uniform JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON serializes payload to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps any error to the uniform envelope.  AppError codes carry
// their own HTTP status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var ae *errors.AppError
	if !errors.AsAppError(err, &ae) {
		ae = errors.Wrap(err, errors.ErrCodeInternal, "internal error")
	}
	writeJSON(w, ae.Code.HTTPStatus(), errorResponse{
		Code:    ae.Code.String(),
		Message: ae.Message,
		Detail:  ae.Detail,
	})
}
