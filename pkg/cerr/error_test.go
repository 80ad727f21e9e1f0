package cerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "invalid_argument", InvalidArgument.String())
	assert.Equal(t, "unknown", Code(999).String())
}

func TestHTTPCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{OK, http.StatusOK},
		{Canceled, 499},
		{InvalidArgument, http.StatusBadRequest},
		{DeadlineExceeded, http.StatusGatewayTimeout},
		{NotFound, http.StatusNotFound},
		{AlreadyExists, http.StatusConflict},
		{FailedPrecondition, http.StatusPreconditionFailed},
		{Unavailable, http.StatusServiceUnavailable},
		{Unknown, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
		{Code(999), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPCode(), tt.code.String())
	}
}

func TestNewErrorCapturesStackForServerErrors(t *testing.T) {
	serverErr := NewError(Internal, "server error", errors.New("boom"))
	assert.NotEmpty(t, serverErr.Stack)

	clientErr := NewError(NotFound, "task not found", nil)
	assert.Empty(t, clientErr.Stack)
}

func TestErrorStringAndUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := NewError(Internal, "server error", underlying)

	assert.Equal(t, "[internal] server error: boom", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))

	bare := NewError(NotFound, "task not found", nil)
	assert.Equal(t, "[not_found] task not found", bare.Error())
}

func TestIsCode(t *testing.T) {
	err := NewError(NotFound, "task not found", nil)

	assert.True(t, IsCode(err, NotFound))
	assert.False(t, IsCode(err, Internal))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), NotFound))
	assert.False(t, IsCode(errors.New("plain"), NotFound))
	assert.False(t, IsCode(nil, NotFound))
}

func TestWrapQueryError(t *testing.T) {
	notFound := WrapQueryError("task", sql.ErrNoRows)
	require.True(t, IsCode(notFound, NotFound))
	assert.Contains(t, notFound.Error(), "task not found")

	internal := WrapQueryError("task", errors.New("disk io"))
	require.True(t, IsCode(internal, Internal))
}

func TestWrapExecError(t *testing.T) {
	err := WrapExecError("task", errors.New("constraint violated"))
	require.True(t, IsCode(err, Internal))
	assert.ErrorContains(t, err, "server error")
}
