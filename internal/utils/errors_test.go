package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidArgument: http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeFailedPrecond:   http.StatusUnprocessableEntity,
		CodeUnavailable:     http.StatusServiceUnavailable,
		CodeInternal:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		err := fmt.Errorf("wrapped: %w", E(code, "Op", "msg", nil))
		require.Equal(t, want, HTTPStatus(err), code)
		require.True(t, IsCode(err, code))
		require.Equal(t, code, CodeOf(err))
	}
	require.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestPublicMessage(t *testing.T) {
	require.Equal(t, "resume not found", PublicMessage(E(CodeNotFound, "ResumeService.Questions", "resume not found", ErrNotFound)))
	require.Equal(t, "the service is temporarily unavailable, please try again",
		PublicMessage(E(CodeUnavailable, "Grader.Grade", "vertex said no", errors.New("503"))))
	require.Equal(t, "conflict", PublicMessage(E(CodeConflict, "x", "", nil)))
	require.Equal(t, "something went wrong, please try again", PublicMessage(errors.New("raw")))
}

func TestErrorString(t *testing.T) {
	err := E(CodeInternal, "ReportService.Get", "load report", errors.New("db down"))
	require.Equal(t, "ReportService.Get: load report: db down", err.Error())
	require.ErrorIs(t, err, errors.Unwrap(err))
}
