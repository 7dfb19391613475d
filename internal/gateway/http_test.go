package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"kazini-payroll/internal/gateway"
	"kazini-payroll/internal/middleware"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/response"

	"github.com/stretchr/testify/assert"
)

func writeEnvelope(w http.ResponseWriter, status int, env response.ApiEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func newGateway(t *testing.T, mux *http.ServeMux) *gateway.HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	gw, err := gateway.NewHTTPGateway(srv.URL+"/api/v1/", "token-1", time.Second)
	assert.NoError(t, err)
	return gw
}

func TestNewHTTPGateway(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://payroll.local", "http://", "http://%zz"} {
		_, err := gateway.NewHTTPGateway(raw, "t", time.Second)
		assert.Error(t, err, raw)
	}
	_, err := gateway.NewHTTPGateway("https://payroll.local/api/v1", "t", 0)
	assert.NoError(t, err)
}

func TestHTTPGateway_SessionCookieAndEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payroll/summary", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(middleware.SessionCookie)
		if assert.NoError(t, err) {
			assert.Equal(t, "token-1", cookie.Value)
		}
		writeEnvelope(w, http.StatusOK, response.ApiEnvelope{Ok: true, Data: payrollcycle.SummaryResponse{
			Status:               payrollcycle.StatusPending,
			HasEligibleEmployees: true,
			EmployeeCount:        2,
			Totals:               &payrollcycle.Totals{TotalNetPay: 100},
		}})
	})
	gw := newGateway(t, mux)

	summary, err := gw.GetSummary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.EmployeeCount)
	assert.Equal(t, int64(100), summary.Totals.TotalNetPay)
}

func TestHTTPGateway_ListWalksPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payroll/employees", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		assert.Equal(t, "200", r.URL.Query().Get("page_size"))
		meta := response.PaginationMeta{Total: 3, TotalPages: 2, PageSize: 200}
		items := []payrollemployee.EmployeeResponse{{ID: "a"}, {ID: "b"}}
		if page == "2" {
			meta.Page = 2
			items = []payrollemployee.EmployeeResponse{{ID: "c"}}
		}
		writeEnvelope(w, http.StatusOK, response.ApiEnvelope{Ok: true, Data: items, Meta: &meta})
	})
	gw := newGateway(t, mux)

	list, err := gw.ListEmployees(context.Background())

	assert.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "c", list[2].ID)
}

func TestHTTPGateway_ErrorCategories(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    *response.ErrorBody
		code    string
		message string
		errors  []string
	}{
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			body:    &response.ErrorBody{Code: apperror.CodeForbidden, Message: "forbidden"},
			code:    apperror.CodeForbidden,
			message: gateway.MsgPermissionDenied,
		},
		{
			name:   "field errors are joined",
			status: http.StatusBadRequest,
			body: &response.ErrorBody{
				Code:    apperror.CodeValidation,
				Message: "One or more fields are invalid",
				Details: apperror.FieldErrors{Errors: []string{"Full name is required", "Amount is invalid"}},
			},
			code:    apperror.CodeValidation,
			message: "Full name is required; Amount is invalid",
			errors:  []string{"Full name is required", "Amount is invalid"},
		},
		{
			name:    "server message",
			status:  http.StatusConflict,
			body:    &response.ErrorBody{Code: apperror.CodeConflict, Message: "payroll cycle has already been disbursed"},
			code:    apperror.CodeConflict,
			message: "payroll cycle has already been disbursed",
		},
		{
			name:    "disbursement timeout",
			status:  http.StatusGatewayTimeout,
			body:    &response.ErrorBody{Code: apperror.CodeOutcomeUnknown, Message: "timed out"},
			code:    apperror.CodeOutcomeUnknown,
			message: gateway.MsgOutcomeUnknown,
		},
		{
			name:    "no envelope",
			status:  http.StatusBadGateway,
			message: gateway.MsgGeneric,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/payroll-cycles/c1/disburse", func(w http.ResponseWriter, r *http.Request) {
				assert.NotEmpty(t, r.Header.Get(middleware.IdempotencyHeader))
				if tc.body == nil {
					w.WriteHeader(tc.status)
					_, _ = w.Write([]byte("<html>bad gateway</html>"))
					return
				}
				writeEnvelope(w, tc.status, response.ApiEnvelope{Error: tc.body})
			})
			gw := newGateway(t, mux)

			_, err := gw.Disburse(context.Background(), "c1")

			var gwErr *gateway.Error
			if assert.ErrorAs(t, err, &gwErr) {
				assert.Equal(t, tc.status, gwErr.Status)
				assert.Equal(t, tc.code, gwErr.Code)
				assert.Equal(t, tc.message, gwErr.Message)
				assert.Equal(t, tc.errors, gwErr.Errors)
			}
		})
	}
}

func TestHTTPGateway_DisburseClientTimeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payroll-cycles/c1/disburse", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	defer close(release)

	gw, err := gateway.NewHTTPGateway(srv.URL+"/api/v1", "", 20*time.Millisecond)
	assert.NoError(t, err)

	_, err = gw.Disburse(context.Background(), "c1")

	assert.True(t, gateway.HasCode(err, apperror.CodeOutcomeUnknown))
	assert.EqualError(t, err, gateway.MsgOutcomeUnknown)
}

func TestHTTPGateway_DisburseOneAtATimePerCycle(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var (
		mu   sync.Mutex
		keys []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payroll-cycles/c1/disburse", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get(middleware.IdempotencyHeader))
		mu.Unlock()
		entered <- struct{}{}
		<-release
		writeEnvelope(w, http.StatusOK, response.ApiEnvelope{Ok: true, Data: payrollcycle.CycleResponse{
			ID: "c1", Status: payrollcycle.StatusCompleted,
		}})
	})
	gw := newGateway(t, mux)

	firstErr := make(chan error, 1)
	go func() {
		_, err := gw.Disburse(context.Background(), "c1")
		firstErr <- err
	}()
	<-entered

	_, err := gw.Disburse(context.Background(), "c1")
	assert.True(t, gateway.HasCode(err, apperror.CodeProcessing))
	assert.EqualError(t, err, gateway.MsgDisbursementInProgress)

	close(release)
	assert.NoError(t, <-firstErr)

	// Once the first call returns, the cycle can be disbursed again with the same key.
	_, err = gw.Disburse(context.Background(), "c1")
	assert.NoError(t, err)
	<-entered

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{gateway.DisburseIdempotencyKey("c1"), gateway.DisburseIdempotencyKey("c1")}, keys)
}

func TestHTTPGateway_Report(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payroll-cycles/c1/report", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdf", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="payroll-cycle-0001.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.3"))
	})
	mux.HandleFunc("/api/v1/payroll-cycles/c2/report", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, response.ApiEnvelope{Error: &response.ErrorBody{
			Code: apperror.CodeInvalidState, Message: "payroll cycle has not been processed yet",
		}})
	})
	gw := newGateway(t, mux)

	rep, err := gw.Report(context.Background(), "c1", payrollcycle.FormatPDF)
	assert.NoError(t, err)
	assert.Equal(t, "payroll-cycle-0001.pdf", rep.Filename)
	assert.Equal(t, "application/pdf", rep.ContentType)
	assert.Equal(t, []byte("%PDF-1.3"), rep.Body)

	_, err = gw.Report(context.Background(), "c2", payrollcycle.FormatPDF)
	assert.True(t, gateway.HasCode(err, apperror.CodeInvalidState))
}

func TestHTTPGateway_InvalidateTaxRateCache(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tax-rates/cache/invalidate", func(w http.ResponseWriter, r *http.Request) {
		called = r.Method == http.MethodPost
		writeEnvelope(w, http.StatusOK, response.ApiEnvelope{Ok: true, Data: map[string]bool{"invalidated": true}})
	})
	gw := newGateway(t, mux)

	assert.NoError(t, gw.InvalidateTaxRateCache(context.Background()))
	assert.True(t, called)
}
