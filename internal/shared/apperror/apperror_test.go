package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kazini-payroll/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps its status and details", func(t *testing.T) {
		err := apperror.ValidationFailed(map[string]string{"amount": "Amount is required"})

		got := apperror.ToHTTP(fmt.Errorf("wrapped: %w", err))

		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, apperror.CodeValidation, got.Code)
		details, ok := got.Details.(apperror.FieldErrors)
		assert.True(t, ok)
		assert.Equal(t, []string{"Amount is required"}, details.Errors)
	})

	t.Run("record not found", func(t *testing.T) {
		got := apperror.ToHTTP(gorm.ErrRecordNotFound)
		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		got := apperror.ToHTTP(context.DeadlineExceeded)
		assert.Equal(t, http.StatusGatewayTimeout, got.Status)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.ErrInternal.Message, got.Message)
	})
}

func TestValidationFailed_SortsMessages(t *testing.T) {
	err := apperror.ValidationFailed(map[string]string{
		"zeta":  "second",
		"alpha": "first",
	})

	details := err.Details.(apperror.FieldErrors)
	assert.Equal(t, []string{"first", "second"}, details.Errors)
}

func TestAppError_IsMatchesCopiesWithDetails(t *testing.T) {
	sentinel := apperror.New(apperror.CodeConflict, "already used", http.StatusConflict)
	withDetails := sentinel.WithDetails(map[string]string{"ref": "x"})

	assert.ErrorIs(t, withDetails, sentinel)
	assert.Nil(t, sentinel.Details)
}
