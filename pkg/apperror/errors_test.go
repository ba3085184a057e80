package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading customer: %w", NewNotFoundError("Customer"))
	appErr := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Customer not found", appErr.Message)
	assert.True(t, IsAppError(wrapped))

	internal := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.NotContains(t, internal.Message, "pq")
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "content", Message: "content is required"}})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
}

func TestInvalid(t *testing.T) {
	err := Invalid("sort_by", "unknown sort key loudest")
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, []FieldError{{Field: "sort_by", Message: "unknown sort key loudest"}}, err.Errors)
}
