// Package gateway is the client view of the payroll API used by operator
// tooling. NewHTTPGateway talks to a running server; NewMemoryGateway keeps
// everything in process for demos and tests.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/taxrate"
	"kazini-payroll/internal/wallet"
)

type Gateway interface {
	ListEmployees(ctx context.Context) ([]payrollemployee.EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req payrollemployee.CreateEmployeeRequest) (payrollemployee.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req payrollemployee.UpdateEmployeeRequest) (payrollemployee.EmployeeResponse, error)
	ListBankCodes(ctx context.Context) ([]bankcode.BankCodeResponse, error)

	GetPayrollConfig(ctx context.Context) (payrollconfig.PayrollConfigResponse, error)
	SavePayrollConfig(ctx context.Context, req payrollconfig.UpsertPayrollConfigRequest) (payrollconfig.PayrollConfigResponse, error)

	GetSummary(ctx context.Context) (payrollcycle.SummaryResponse, error)
	Process(ctx context.Context, req payrollcycle.ProcessRequest) (payrollcycle.ProcessResponse, error)
	ListCycles(ctx context.Context, status string) ([]payrollcycle.CycleResponse, error)
	Disburse(ctx context.Context, cycleID string) (payrollcycle.CycleResponse, error)
	Report(ctx context.Context, cycleID, format string) (payrollcycle.Report, error)

	GetWallet(ctx context.Context) (wallet.WalletResponse, error)
	ListTransactions(ctx context.Context) ([]wallet.TransactionResponse, error)
	CreateFundingRequest(ctx context.Context, req wallet.CreateFundingRequest) (wallet.FundingRequestResponse, error)
	SubmitMpesaProof(ctx context.Context, id string, req wallet.MpesaProofRequest) (wallet.FundingRequestResponse, error)
	VerifyFunding(ctx context.Context, id string, req wallet.VerifyFundingRequest) (wallet.FundingRequestResponse, error)

	CurrentTaxRates(ctx context.Context) (taxrate.TaxRateSetResponse, error)
	InvalidateTaxRateCache(ctx context.Context) error
}

const (
	MsgPermissionDenied       = "You do not have permission to perform this action."
	MsgOutcomeUnknown         = "Disbursement timed out, status unknown. Check the cycle status before retrying disbursement."
	MsgDisbursementInProgress = "A disbursement for this cycle is already in progress."
	MsgGeneric                = "Something went wrong. Please try again."
)

// Error is a failed call, already reduced to a message fit for an operator.
type Error struct {
	Status  int
	Code    string
	Message string
	// Errors lists field problems reported by the server, when any.
	Errors []string
	Err    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// HasCode reports whether err is a gateway Error with the given code.
func HasCode(err error, code string) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Code == code
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (b errorBody) fieldErrors() []string {
	if len(b.Details) == 0 {
		return nil
	}
	var d apperror.FieldErrors
	if err := json.Unmarshal(b.Details, &d); err != nil {
		return nil
	}
	return d.Errors
}

func categorize(status int, body *errorBody) *Error {
	e := &Error{Status: status}
	if body != nil {
		e.Code = body.Code
	}

	switch {
	case status == http.StatusForbidden:
		e.Message = MsgPermissionDenied
	case e.Code == apperror.CodeOutcomeUnknown || status == http.StatusGatewayTimeout:
		e.Code = apperror.CodeOutcomeUnknown
		e.Message = MsgOutcomeUnknown
	case body != nil && len(body.fieldErrors()) > 0:
		e.Errors = body.fieldErrors()
		e.Message = strings.Join(e.Errors, "; ")
	case body != nil && body.Message != "":
		e.Message = body.Message
	default:
		e.Message = MsgGeneric
	}
	return e
}

// fromServiceError renders a server-side error the way the HTTP gateway
// would have received it.
func fromServiceError(err error) error {
	if err == nil {
		return nil
	}
	h := apperror.ToHTTP(err)
	body := &errorBody{Code: h.Code, Message: h.Message}
	if h.Details != nil {
		if raw, mErr := json.Marshal(h.Details); mErr == nil {
			body.Details = raw
		}
	}
	gwErr := categorize(h.Status, body)
	gwErr.Err = err
	return gwErr
}
