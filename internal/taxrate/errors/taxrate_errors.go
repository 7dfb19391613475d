package taxrateerrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrNoActiveRateSet = apperror.New(
		apperror.CodeNotFound,
		"no tax rate set is in effect",
		http.StatusNotFound,
	)
	ErrInvalidRateSet = apperror.New(
		apperror.CodeValidation,
		"tax rate set is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveFrom = apperror.New(
		apperror.CodeValidation,
		"effective_from must be a date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"another version of this tax year was created concurrently, retry",
		http.StatusConflict,
	)
)
