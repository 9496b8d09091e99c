package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/TalentScreen/internal/testutil"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte("body"))
	})
}

func TestRequestLogging_LevelsFollowStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		log := testutil.NewMockLogger()
		mw := RequestLogging(log)
		w := httptest.NewRecorder()
		mw(okHandler(tc.status)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, tc.status, w.Code)
		assert.Truef(t, log.HasMessage(tc.level, "http request"), "status %d", tc.status)
	}
}

func TestRequestLogging_SkipsProbePaths(t *testing.T) {
	log := testutil.NewMockLogger()
	mw := RequestLogging(log, "/healthz")

	mw(okHandler(http.StatusOK)).ServeHTTP(
		httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, log.Messages)
}

func TestWrappedResponseWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := newWrappedResponseWriter(rec)
	ww.Write([]byte("hello"))

	assert.Equal(t, http.StatusOK, ww.statusCode)
	assert.Equal(t, int64(5), ww.bytesWritten)
}

func TestWrappedResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := newWrappedResponseWriter(rec)
	ww.WriteHeader(http.StatusTeapot)
	ww.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusTeapot, ww.statusCode)
}
