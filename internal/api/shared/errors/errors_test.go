package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want int
	}{
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"validation", NewValidationError("limit must be positive"), http.StatusUnprocessableEntity},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError},
		{"database", NewDatabaseError("db down"), http.StatusInternalServerError},
		{"service", NewServiceError("rpc down"), http.StatusBadGateway},
		{"unknown code", &APIError{Code: "teapot"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "not_found: Song not found", NewNotFoundError("Song not found").Error())
	assert.Equal(t, "bad_request: Invalid id (not a number, too long)",
		NewBadRequestError("Invalid id", "not a number", "too long").Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("limit must be positive")
	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Equal(t, "limit must be positive", err.Details)
}
