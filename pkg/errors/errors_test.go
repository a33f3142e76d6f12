package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", 42)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product")
	assert.Contains(t, err.Message, "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("login required")

	assert.Equal(t, "UNAUTHORIZED", err.Code)
	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAppError_ErrorString(t *testing.T) {
	err := &AppError{Code: "NOT_FOUND", Message: "gone"}
	assert.Equal(t, "NOT_FOUND: gone", err.Error())

	withCause := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Err: errors.New("cause")}
	assert.Equal(t, "INTERNAL_ERROR: boom: cause", withCause.Error())
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("get product: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus_AppErrorTakesPrecedence(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("review", 7))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	wrapped := Wrap(base, "context")

	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "context: base", wrapped.Error())
}
