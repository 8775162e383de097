package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "candidate not found")
	assert.Equal(t, "candidate not found", err.Error())
}

func TestErrValidationDetails(t *testing.T) {
	err := ErrValidation("sort", "unknown sort key")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "sort", details.Field)
}

func TestHandleErrorRendersAPIError(t *testing.T) {
	h := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)

	h.HandleError(w, r, ErrDatasetLoading)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DATASET_LOADING")
}

func TestHandleErrorWrapsUnknownErrors(t *testing.T) {
	h := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	h.HandleError(w, r, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	// Internal details never leak.
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestHandleErrorUnwrapsNestedAPIError(t *testing.T) {
	h := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	h.HandleError(w, r, fmt.Errorf("handling request: %w", ErrNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
