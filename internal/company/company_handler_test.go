package company_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kazini-payroll/internal/company"
	companyerrors "kazini-payroll/internal/company/errors"
	companyMock "kazini-payroll/internal/company/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	mockService := companyMock.NewMockService(ctrl)
	handler := company.NewHandler(mockService)

	t.Run("Success", func(t *testing.T) {
		compID := "comp-123"
		mockService.EXPECT().GetByID(gomock.Any(), compID).Return(company.CompanyResponse{ID: compID, Name: "Test Company"}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("company_id", compID)
			c.Next()
		})

		r.GET("/me", handler.GetMe)
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res map[string]any
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, true, res["ok"])
	})

	t.Run("Not Found", func(t *testing.T) {
		mockService.EXPECT().GetByID(gomock.Any(), "comp-404").Return(company.CompanyResponse{}, companyerrors.ErrCompanyNotFound)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("company_id", "comp-404")
			c.Next()
		})

		r.GET("/me", handler.GetMe)
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	mockService := companyMock.NewMockService(ctrl)
	handler := company.NewHandler(mockService)

	newRouter := func() (*httptest.ResponseRecorder, *gin.Engine) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "user-1")
			c.Next()
		})
		r.POST("/companies", handler.Register)
		return w, r
	}

	t.Run("Created", func(t *testing.T) {
		body := company.RegisterCompanyRequest{
			Name: "Savannah Logistics Ltd", RegistrationNumber: "PVT-7AB3KD", KraPin: "P051234567X",
			Email: "payroll@savannah.co.ke", Phone: "0712345678",
		}
		mockService.EXPECT().Register(gomock.Any(), "user-1", "", body).
			Return(company.RegisterCompanyResponse{WalletID: "wallet-1", Role: "owner"}, nil)

		w, r := newRouter()
		payload, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/companies", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Missing fields", func(t *testing.T) {
		w, r := newRouter()
		req, _ := http.NewRequest(http.MethodPost, "/companies", bytes.NewBufferString(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
