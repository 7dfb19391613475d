package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput       = "INVALID_INPUT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodeProcessing         = "PROCESSING"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeUnknownReference   = "UNKNOWN_REFERENCE"
	CodeAmountMismatch     = "AMOUNT_MISMATCH"
	CodeTransactionCodeUse = "TRANSACTION_CODE_ALREADY_USED"
	CodeNotAwaitingVerify  = "NOT_AWAITING_VERIFICATION"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeOutcomeUnknown     = "OUTCOME_UNKNOWN"
)
