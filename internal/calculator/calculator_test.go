package calculator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kazini-payroll/internal/calculator"
	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/payrollcalc/calctest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRates struct {
	err   error
	asked *time.Time
}

func (f fakeRates) RateSetAt(_ context.Context, at time.Time) (payrollcalc.RateSet, error) {
	if f.asked != nil {
		*f.asked = at
	}
	if f.err != nil {
		return payrollcalc.RateSet{}, f.err
	}
	return calctest.KenyaRates(), nil
}

func TestCalculatorService_Calculate(t *testing.T) {
	t.Run("reference breakdown in cents", func(t *testing.T) {
		svc := calculator.NewService(fakeRates{})

		resp, err := svc.Calculate(context.Background(), calculator.CalculateRequest{
			BasicSalary:        12500000,
			Allowances:         800000,
			IncomePeriod:       "MONTHLY",
			IncludeNhif:        true,
			IncludeNssf:        true,
			IncludeHousingLevy: true,
			IsPensionable:      true,
			CalculationDate:    "2025-03-31",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(13300000), resp.GrossSalary)
		assert.Equal(t, int64(2993960), resp.Paye)
		assert.Equal(t, int64(3775210), resp.TotalDeductions)
		assert.Equal(t, int64(9524790), resp.NetSalary)
		assert.Equal(t, 2024, resp.TaxYear)
		assert.Equal(t, 3, resp.RateSetVersion)
		assert.Equal(t, "2025-03-31", resp.CalculationDate)
	})

	t.Run("rates are looked up for the calculation date", func(t *testing.T) {
		var asked time.Time
		svc := calculator.NewService(fakeRates{asked: &asked})

		_, err := svc.Calculate(context.Background(), calculator.CalculateRequest{
			BasicSalary:     5000000,
			IncomePeriod:    "MONTHLY",
			CalculationDate: "2024-06-30",
		})

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), asked)
	})

	t.Run("rate lookup failure", func(t *testing.T) {
		svc := calculator.NewService(fakeRates{err: errors.New("no active rate set")})

		_, err := svc.Calculate(context.Background(), calculator.CalculateRequest{BasicSalary: 100, IncomePeriod: "MONTHLY"})

		assert.Error(t, err)
	})
}

func TestCalculatorHandler_Calculate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/payroll/calculator", calculator.NewHandler(calculator.NewService(fakeRates{})).Calculate)

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"basic_salary":12500000,"allowances":800000,"income_period":"MONTHLY"}`
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payroll/calculator", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Ok   bool                         `json:"ok"`
			Data calculator.CalculateResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, int64(3228335), env.Data.Paye)
		assert.Equal(t, int64(10071665), env.Data.NetSalary)
	})

	t.Run("unknown period", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"basic_salary":100,"income_period":"WEEKLY"}`
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payroll/calculator", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
