package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatusCodes(t *testing.T) {
	tests := []struct {
		err  *APIError
		typ  ErrorType
		code int
	}{
		{NewValidationError("bad", nil), ErrorTypeValidation, http.StatusBadRequest},
		{NewMalformedFileError("bad file", nil), ErrorTypeMalformedFile, http.StatusBadRequest},
		{NewAuthError("who", nil), ErrorTypeAuth, http.StatusUnauthorized},
		{NewAuthorizationError("no", nil), ErrorTypeAuthorize, http.StatusForbidden},
		{NewNotFoundError("gone", nil), ErrorTypeNotFound, http.StatusNotFound},
		{NewConflictError("dup", nil), ErrorTypeConflict, http.StatusConflict},
		{NewDatabaseError("db", nil), ErrorTypeDatabase, http.StatusInternalServerError},
		{NewInternalError("oops", nil), ErrorTypeInternal, http.StatusInternalServerError},
		{NewUnavailableError("down", nil), ErrorTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := stderrors.New("sql: no rows in result set")
	wrapped := fmt.Errorf("loading: %w", NewNotFoundError("Sensor data not found", cause))

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Sensor data not found", apiErr.Message)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.ErrorIs(t, wrapped, cause)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "validation: bad input", NewValidationError("bad input", nil).Error())
	assert.Contains(t, NewDatabaseError("failed", stderrors.New("boom")).Error(), "internal: boom")
}
