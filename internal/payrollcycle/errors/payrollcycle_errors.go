package payrollcycleerrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll cycle not found",
		http.StatusNotFound,
	)
	ErrNoEligibleEmployees = apperror.New(
		apperror.CodeInvalidState,
		"payroll cannot be processed without active employees",
		http.StatusUnprocessableEntity,
	)
	ErrCycleNotProcessed = apperror.New(
		apperror.CodeInvalidState,
		"payroll cycle has not been processed yet",
		http.StatusConflict,
	)
	ErrCycleAlreadyDisbursed = apperror.New(
		apperror.CodeConflict,
		"payroll cycle has already been disbursed",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"payroll cycle cannot move to the requested status",
		http.StatusConflict,
	)
	ErrDisbursementInProgress = apperror.New(
		apperror.CodeProcessing,
		"a disbursement for this cycle is already in progress",
		http.StatusConflict,
	)
	ErrDisbursementOutcomeUnknown = apperror.New(
		apperror.CodeOutcomeUnknown,
		"disbursement timed out, status unknown. Check the cycle status before retrying disbursement",
		http.StatusGatewayTimeout,
	)
	ErrInvalidRunDate = apperror.New(
		apperror.CodeValidation,
		"run_date must be a date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrUnsupportedReportFormat = apperror.New(
		apperror.CodeValidation,
		"report format must be xlsx or pdf",
		http.StatusBadRequest,
	)
	ErrEmployeeCalculation = apperror.New(
		apperror.CodeValidation,
		"payroll could not be calculated for an employee",
		http.StatusUnprocessableEntity,
	)
)
