// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"submission not found", errors.ErrCodeSubmissionNotFound, "submission sub-42 not found"},
		{"validation", errors.ErrCodeValidation, "submission id must not be empty"},
		{"in flight", errors.ErrCodeEvaluationInFlight, "evaluation already running"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeDatabaseError, "failed to load cohort")

	require.NotNil(t, wrapped)
	assert.ErrorIs(t, wrapped, root)
	assert.Equal(t, root, wrapped.Unwrap())
}

func TestError_FormatIncludesDetailWhenSet(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeScorePersistFailed, "score write failed")
	assert.Equal(t, "[EVAL_005] score write failed", ae.Error())

	withDetail := ae.WithDetail("submission_id=sub-1")
	assert.Equal(t, "[EVAL_005] score write failed: submission_id=sub-1", withDetail.Error())
	// WithDetail must not mutate the receiver.
	assert.Empty(t, ae.Detail)
}

func TestIsCode_TraversesWrappedChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSubmissionNotFound, "submission missing")
	outer := fmt.Errorf("pipeline: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeSubmissionNotFound))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeDatabaseError))
	assert.True(t, errors.IsNotFound(outer))
}

func TestIsConflict_CoversInFlightGuard(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsConflict(errors.New(errors.ErrCodeEvaluationInFlight, "busy")))
	assert.True(t, errors.IsConflict(errors.New(errors.ErrCodeConflict, "conflict")))
	assert.False(t, errors.IsConflict(errors.New(errors.ErrCodeValidation, "bad input")))
}

func TestGetCode_FallsBackToInternal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.ErrCodeInternal, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeCacheError,
		errors.GetCode(errors.New(errors.ErrCodeCacheError, "miss")))
}

func TestHTTPStatus_KnownAndUnknownCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, errors.ErrCodeSubmissionNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, errors.ErrCodeEvaluationInFlight.HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, errors.ErrCodeRemoteGraderFailed.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, errors.ErrorCode("NOPE").HTTPStatus())
}
