package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "missing", "series.csv")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "series.csv", err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("window", "must be 1yr or 3yr")
	require.Equal(t, http.StatusBadRequest, err.StatusCode)

	ve, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "window", ve.Field)
	assert.Equal(t, "must be 1yr or 3yr", ve.Message)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrIndexNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INDEX_NOT_FOUND", resp.Error.ErrorCode)
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "api error passes through",
			err:        ErrInvalidParameter,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_PARAMETER",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("handler: %w", ErrIndexNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "INDEX_NOT_FOUND",
		},
		{
			name:       "context cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "TIMEOUT",
		},
		{
			name:       "plain error becomes internal",
			err:        fmt.Errorf("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ToAPIError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
