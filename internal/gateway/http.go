package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/middleware"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/response"
	"kazini-payroll/internal/taxrate"
	"kazini-payroll/internal/wallet"
)

const (
	listPageSize = 200
	maxErrorBody = 64 << 10
)

type HTTPGateway struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu         sync.Mutex
	disbursing map[string]struct{}
}

// NewHTTPGateway returns a client for the API mounted at baseURL, e.g.
// https://payroll.example.com/api/v1. The session token travels in the
// session cookie.
func NewHTTPGateway(baseURL, token string, timeout time.Duration) (*HTTPGateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway: missing base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("gateway: invalid base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("gateway: invalid base url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("gateway: invalid base url host")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		disbursing: make(map[string]struct{}),
	}, nil
}

type envelope struct {
	Ok    bool                     `json:"ok"`
	Data  json.RawMessage          `json:"data"`
	Meta  *response.PaginationMeta `json:"meta"`
	Error *errorBody               `json:"error"`
}

func (g *HTTPGateway) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: g.token})
	}
	return req, nil
}

func (g *HTTPGateway) send(req *http.Request) (*http.Response, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

func transportError(err error) *Error {
	return &Error{Code: apperror.CodeServiceUnavailable, Message: MsgGeneric, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func readEnvelope(resp *http.Response) (envelope, error) {
	var env envelope
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, transportError(err)
	}
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &env); err != nil && resp.StatusCode/100 == 2 {
			return env, &Error{Status: resp.StatusCode, Message: MsgGeneric, Err: fmt.Errorf("gateway: decode response: %w", err)}
		}
	}
	if resp.StatusCode/100 != 2 || (!env.Ok && env.Error != nil) {
		return env, categorize(resp.StatusCode, env.Error)
	}
	return env, nil
}

func (g *HTTPGateway) call(ctx context.Context, method, path string, query url.Values, body any, out any) (*response.PaginationMeta, error) {
	req, err := g.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	resp, err := g.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	env, err := readEnvelope(resp)
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Status: resp.StatusCode, Message: MsgGeneric, Err: fmt.Errorf("gateway: decode data: %w", err)}
		}
	}
	return env.Meta, nil
}

// getAll walks every page of a paginated list endpoint.
func getAll[T any](ctx context.Context, g *HTTPGateway, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", strconv.Itoa(listPageSize))

	var all []T
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		var items []T
		meta, err := g.call(ctx, http.MethodGet, path, query, nil, &items)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if meta == nil || page >= meta.TotalPages || len(items) == 0 {
			return all, nil
		}
	}
}

func (g *HTTPGateway) ListEmployees(ctx context.Context) ([]payrollemployee.EmployeeResponse, error) {
	return getAll[payrollemployee.EmployeeResponse](ctx, g, "/payroll/employees", nil)
}

func (g *HTTPGateway) CreateEmployee(ctx context.Context, req payrollemployee.CreateEmployeeRequest) (payrollemployee.EmployeeResponse, error) {
	var out payrollemployee.EmployeeResponse
	_, err := g.call(ctx, http.MethodPost, "/payroll/employees", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) UpdateEmployee(ctx context.Context, id string, req payrollemployee.UpdateEmployeeRequest) (payrollemployee.EmployeeResponse, error) {
	var out payrollemployee.EmployeeResponse
	_, err := g.call(ctx, http.MethodPut, "/payroll/employees/"+url.PathEscape(id), nil, req, &out)
	return out, err
}

func (g *HTTPGateway) ListBankCodes(ctx context.Context) ([]bankcode.BankCodeResponse, error) {
	var out []bankcode.BankCodeResponse
	_, err := g.call(ctx, http.MethodGet, "/bank-codes", nil, nil, &out)
	return out, err
}

func (g *HTTPGateway) GetPayrollConfig(ctx context.Context) (payrollconfig.PayrollConfigResponse, error) {
	var out payrollconfig.PayrollConfigResponse
	_, err := g.call(ctx, http.MethodGet, "/payroll/config", nil, nil, &out)
	return out, err
}

func (g *HTTPGateway) SavePayrollConfig(ctx context.Context, req payrollconfig.UpsertPayrollConfigRequest) (payrollconfig.PayrollConfigResponse, error) {
	var out payrollconfig.PayrollConfigResponse
	_, err := g.call(ctx, http.MethodPut, "/payroll/config", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) GetSummary(ctx context.Context) (payrollcycle.SummaryResponse, error) {
	var out payrollcycle.SummaryResponse
	_, err := g.call(ctx, http.MethodGet, "/payroll/summary", nil, nil, &out)
	return out, err
}

func (g *HTTPGateway) Process(ctx context.Context, req payrollcycle.ProcessRequest) (payrollcycle.ProcessResponse, error) {
	var out payrollcycle.ProcessResponse
	_, err := g.call(ctx, http.MethodPost, "/payroll/process", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) ListCycles(ctx context.Context, status string) ([]payrollcycle.CycleResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	return getAll[payrollcycle.CycleResponse](ctx, g, "/payroll-cycles", query)
}

// Disburse sends at most one request per cycle at a time; a second call for
// the same cycle fails without reaching the server. The idempotency key is
// derived from the cycle so a retried request matches the first one. A
// client-side timeout is reported as an unknown outcome since the server may
// still commit.
func (g *HTTPGateway) Disburse(ctx context.Context, cycleID string) (payrollcycle.CycleResponse, error) {
	var out payrollcycle.CycleResponse
	if !g.beginDisburse(cycleID) {
		return out, &Error{Code: apperror.CodeProcessing, Message: MsgDisbursementInProgress}
	}
	defer g.endDisburse(cycleID)

	req, err := g.newRequest(ctx, http.MethodPost, "/payroll-cycles/"+url.PathEscape(cycleID)+"/disburse", nil, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set(middleware.IdempotencyHeader, DisburseIdempotencyKey(cycleID))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return out, &Error{Code: apperror.CodeOutcomeUnknown, Message: MsgOutcomeUnknown, Err: err}
		}
		return out, transportError(err)
	}
	defer resp.Body.Close()

	env, err := readEnvelope(resp)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &Error{Status: resp.StatusCode, Message: MsgGeneric, Err: fmt.Errorf("gateway: decode data: %w", err)}
	}
	return out, nil
}

// DisburseIdempotencyKey is the Idempotency-Key sent with every disbursement
// of cycleID.
func DisburseIdempotencyKey(cycleID string) string {
	return "disburse:" + cycleID
}

func (g *HTTPGateway) beginDisburse(cycleID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.disbursing[cycleID]; busy {
		return false
	}
	g.disbursing[cycleID] = struct{}{}
	return true
}

func (g *HTTPGateway) endDisburse(cycleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.disbursing, cycleID)
}

func (g *HTTPGateway) Report(ctx context.Context, cycleID, format string) (payrollcycle.Report, error) {
	query := url.Values{}
	if format != "" {
		query.Set("format", format)
	}
	req, err := g.newRequest(ctx, http.MethodGet, "/payroll-cycles/"+url.PathEscape(cycleID)+"/report", query, nil)
	if err != nil {
		return payrollcycle.Report{}, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := g.send(req)
	if err != nil {
		return payrollcycle.Report{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, err := readEnvelope(&http.Response{StatusCode: resp.StatusCode, Body: io.NopCloser(io.LimitReader(resp.Body, maxErrorBody))})
		return payrollcycle.Report{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return payrollcycle.Report{}, transportError(err)
	}
	rep := payrollcycle.Report{ContentType: resp.Header.Get("Content-Type"), Body: body}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		rep.Filename = params["filename"]
	}
	return rep, nil
}

func (g *HTTPGateway) GetWallet(ctx context.Context) (wallet.WalletResponse, error) {
	var out wallet.WalletResponse
	_, err := g.call(ctx, http.MethodGet, "/wallet", nil, nil, &out)
	return out, err
}

func (g *HTTPGateway) ListTransactions(ctx context.Context) ([]wallet.TransactionResponse, error) {
	return getAll[wallet.TransactionResponse](ctx, g, "/wallet/transactions", nil)
}

func (g *HTTPGateway) CreateFundingRequest(ctx context.Context, req wallet.CreateFundingRequest) (wallet.FundingRequestResponse, error) {
	var out wallet.FundingRequestResponse
	_, err := g.call(ctx, http.MethodPost, "/wallet/funding-requests", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) SubmitMpesaProof(ctx context.Context, id string, req wallet.MpesaProofRequest) (wallet.FundingRequestResponse, error) {
	var out wallet.FundingRequestResponse
	_, err := g.call(ctx, http.MethodPost, "/wallet/funding-requests/"+url.PathEscape(id)+"/mpesa-proof", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) VerifyFunding(ctx context.Context, id string, req wallet.VerifyFundingRequest) (wallet.FundingRequestResponse, error) {
	var out wallet.FundingRequestResponse
	_, err := g.call(ctx, http.MethodPost, "/wallet/funding-requests/"+url.PathEscape(id)+"/verify", nil, req, &out)
	return out, err
}

func (g *HTTPGateway) CurrentTaxRates(ctx context.Context) (taxrate.TaxRateSetResponse, error) {
	var out taxrate.TaxRateSetResponse
	_, err := g.call(ctx, http.MethodGet, "/tax-rates/current", nil, nil, &out)
	return out, err
}

func (g *HTTPGateway) InvalidateTaxRateCache(ctx context.Context) error {
	_, err := g.call(ctx, http.MethodPost, "/tax-rates/cache/invalidate", nil, nil, nil)
	return err
}
