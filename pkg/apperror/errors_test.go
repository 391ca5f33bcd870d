package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	notFound := NewNotFoundError("Invoice")
	wrapped := fmt.Errorf("get sale: %w", notFound)

	got := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "Invoice not found", got.Message)

	plain := GetAppError(errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, plain.Code)
	assert.Equal(t, "connection refused", plain.Message)
}

func TestGetAppErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := GetAppError(fmt.Errorf("store invoice: %w", cause))

	assert.True(t, errors.Is(appErr, cause))
	assert.False(t, IsAppError(cause))
	assert.True(t, IsAppError(appErr))
}

func TestNewValidationError(t *testing.T) {
	appErr := NewValidationError([]FieldError{{Field: "reward.percent", Message: "must be between 0 and 100"}})
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 1)
}
