package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeExternalService    ErrorCode = "COMMON_011"
)

// Evaluation module error codes.
const (
	ErrCodeSubmissionNotFound  ErrorCode = "EVAL_001"
	ErrCodeAssessmentNotFound  ErrorCode = "EVAL_002"
	ErrCodeQuestionBankEmpty   ErrorCode = "EVAL_003"
	ErrCodeEvaluationInFlight  ErrorCode = "EVAL_004"
	ErrCodeScorePersistFailed  ErrorCode = "EVAL_005"
	ErrCodeRemoteGraderFailed  ErrorCode = "EVAL_006"
	ErrCodeEventPublishFailed  ErrorCode = "EVAL_007"
	ErrCodeInvalidStatusChange ErrorCode = "EVAL_008"
	ErrCodeCohortFetchFailed   ErrorCode = "EVAL_009"
	ErrCodeUnknownQuestionType ErrorCode = "EVAL_010"
)

// httpStatusByCode maps error codes onto the HTTP status the interface
// layer should answer with.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeSubmissionNotFound:  http.StatusNotFound,
	ErrCodeAssessmentNotFound:  http.StatusNotFound,
	ErrCodeQuestionBankEmpty:   http.StatusUnprocessableEntity,
	ErrCodeEvaluationInFlight:  http.StatusConflict,
	ErrCodeScorePersistFailed:  http.StatusInternalServerError,
	ErrCodeRemoteGraderFailed:  http.StatusBadGateway,
	ErrCodeEventPublishFailed:  http.StatusInternalServerError,
	ErrCodeInvalidStatusChange: http.StatusConflict,
	ErrCodeCohortFetchFailed:   http.StatusInternalServerError,
	ErrCodeUnknownQuestionType: http.StatusUnprocessableEntity,
}

// HTTPStatus returns the HTTP status code associated with c.
// Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
