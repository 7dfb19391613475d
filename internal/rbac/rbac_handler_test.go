package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kazini-payroll/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	enforceFn    func(req domain.EnforceRequest) (bool, error)
	assignRoleFn func(ctx context.Context, companyID, userID, role string) error
}

func (m *fakeService) LoadCompanyPolicy(companyID string) error { return nil }

func (m *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	return m.enforceFn(req)
}

func (m *fakeService) AssignRole(ctx context.Context, companyID, userID, role string) error {
	return m.assignRoleFn(ctx, companyID, userID, role)
}

func (m *fakeService) SeedPermissions(ctx context.Context) error { return nil }

func withSession(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "company-1")
}

func TestHandler_Enforce_UsesSessionSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{enforceFn: func(req domain.EnforceRequest) (bool, error) {
		assert.Equal(t, "user-1", req.UserID)
		assert.Equal(t, "company-1", req.CompanyID)
		return req.Resource == "wallet" && req.Action == "read", nil
	}}
	router := gin.New()
	router.POST("/rbac/enforce", withSession, NewHandler(svc).Enforce)

	body, _ := json.Marshal(map[string]string{"user_id": "someone-else", "resource": "wallet", "action": "read"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Ok   bool                   `json:"ok"`
		Data domain.EnforceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Data.Allowed)
}

func TestHandler_AssignRole_RejectsUnknownRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/rbac/roles", withSession, NewHandler(&fakeService{}).AssignRole)

	body := `{"user_id":"7f9d4c1e-8b7a-4a55-9a3c-2f1b0c9d8e7f","role":"superuser"}`
	req := httptest.NewRequest(http.MethodPut, "/rbac/roles", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
