package formserrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrRuleSetNotFound = apperror.New(
		apperror.CodeNotFound,
		"form rule set not found",
		http.StatusNotFound,
	)
	ErrUnknownField = apperror.New(
		apperror.CodeInvalidInput,
		"field is not part of this form",
		http.StatusBadRequest,
	)
	ErrInvalidEvent = apperror.New(
		apperror.CodeInvalidInput,
		"event must be change, blur or submit",
		http.StatusBadRequest,
	)
)
