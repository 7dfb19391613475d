package payrollcalcerrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrInvalidInput = apperror.New(
		apperror.CodeValidation,
		"payroll input is invalid",
		http.StatusBadRequest,
	)
	ErrDeductionsExceedGross = apperror.New(
		apperror.CodeValidation,
		"statutory deductions exceed gross salary",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidRateSet = apperror.New(
		apperror.CodeInvalidState,
		"tax rate configuration is invalid",
		http.StatusInternalServerError,
	)
)
