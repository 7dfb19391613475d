package apperror

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error returned by a service to an HTTP response shape.
// Unknown errors are hidden behind ErrInternal.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fromAppError(ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fromAppError(ErrTimeout)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if mapped, ok := MapValidationError(err).(*AppError); ok {
			return fromAppError(mapped)
		}
	}

	return fromAppError(ErrInternal)
}

func fromAppError(e *AppError) HTTPError {
	return HTTPError{
		Status:  e.HTTPStatus,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}
