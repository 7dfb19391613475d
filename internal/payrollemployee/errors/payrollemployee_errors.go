package payrollemployeeerrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee pay record not found",
		http.StatusNotFound,
	)
	ErrUnknownBankCode = apperror.New(
		apperror.CodeValidation,
		"bank code is not recognised",
		http.StatusBadRequest,
	)
	ErrInvalidAccountNumber = apperror.New(
		apperror.CodeValidation,
		"account number does not match the bank's format",
		http.StatusBadRequest,
	)
	ErrDuplicateAccount = apperror.New(
		apperror.CodeConflict,
		"an employee with this bank account already exists",
		http.StatusConflict,
	)
	ErrInvalidCSV = apperror.New(
		apperror.CodeInvalidInput,
		"upload is not a readable CSV file",
		http.StatusBadRequest,
	)
	ErrEmptyUpload = apperror.New(
		apperror.CodeValidation,
		"upload contains no employee rows",
		http.StatusBadRequest,
	)
	ErrUploadRejected = apperror.New(
		apperror.CodeValidation,
		"upload rejected, no rows were saved",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is already inactive",
		http.StatusConflict,
	)
)
