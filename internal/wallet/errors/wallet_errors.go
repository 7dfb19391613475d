package walleterrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrWalletNotFound = apperror.New(
		apperror.CodeNotFound,
		"wallet not found",
		http.StatusNotFound,
	)
	ErrFundingRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"funding request not found",
		http.StatusNotFound,
	)
	ErrInsufficientFunds = apperror.New(
		apperror.CodeInsufficientFunds,
		"wallet balance is too low for this disbursement",
		http.StatusUnprocessableEntity,
	)
	ErrDuplicateTransaction = apperror.New(
		apperror.CodeConflict,
		"a wallet transaction with this reference already exists",
		http.StatusConflict,
	)
	ErrWrongPaymentMethod = apperror.New(
		apperror.CodeValidation,
		"proof does not match the funding request's payment method",
		http.StatusBadRequest,
	)
	ErrProofAlreadySubmitted = apperror.New(
		apperror.CodeInvalidState,
		"proof can only be submitted for a pending funding request",
		http.StatusConflict,
	)
	ErrInvalidTransferDate = apperror.New(
		apperror.CodeValidation,
		"transfer_date must be a date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)

	// Verification outcomes. Each one tells the verifier what to correct.
	ErrUnknownReference = apperror.New(
		apperror.CodeUnknownReference,
		"statement reference does not match this funding request",
		http.StatusUnprocessableEntity,
	)
	ErrAmountMismatch = apperror.New(
		apperror.CodeAmountMismatch,
		"statement amount does not match the funding request amount",
		http.StatusUnprocessableEntity,
	)
	ErrTransactionCodeUsed = apperror.New(
		apperror.CodeTransactionCodeUse,
		"this M-PESA transaction code has already been used",
		http.StatusConflict,
	)
	ErrNotAwaitingVerification = apperror.New(
		apperror.CodeNotAwaitingVerify,
		"funding request is not awaiting verification",
		http.StatusConflict,
	)
)
