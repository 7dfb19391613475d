package payrollconfig_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/payrollconfig"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findFn   func(ctx context.Context, companyID string) (*payrollconfig.PayrollConfig, error)
	upsertFn func(ctx context.Context, cfg *payrollconfig.PayrollConfig) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) payrollconfig.Repository { return f }

func (f *fakeRepo) FindByCompany(ctx context.Context, companyID string) (*payrollconfig.PayrollConfig, error) {
	return f.findFn(ctx, companyID)
}

func (f *fakeRepo) Upsert(ctx context.Context, cfg *payrollconfig.PayrollConfig) error {
	return f.upsertFn(ctx, cfg)
}

func TestPayrollConfigService_Get(t *testing.T) {
	companyID := uuid.NewString()

	t.Run("defaults when nothing saved", func(t *testing.T) {
		repo := &fakeRepo{findFn: func(context.Context, string) (*payrollconfig.PayrollConfig, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := payrollconfig.NewService(repo, forms.MustRegistry(), 200)

		resp, err := svc.Get(context.Background(), companyID)

		assert.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, 200, resp.ServiceFeeRateBps)
		assert.Equal(t, payrollconfig.DefaultPayDay, resp.PayDay)
		assert.False(t, resp.IncludeNssf)
	})

	t.Run("saved config", func(t *testing.T) {
		repo := &fakeRepo{findFn: func(context.Context, string) (*payrollconfig.PayrollConfig, error) {
			return &payrollconfig.PayrollConfig{CompanyID: uuid.MustParse(companyID), ServiceFeeRateBps: 150, PayDay: 25, IncludeNssf: true}, nil
		}}
		svc := payrollconfig.NewService(repo, forms.MustRegistry(), 200)

		resp, err := svc.Get(context.Background(), companyID)

		assert.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, 150, resp.ServiceFeeRateBps)
		assert.True(t, resp.IncludeNssf)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &fakeRepo{findFn: func(context.Context, string) (*payrollconfig.PayrollConfig, error) {
			return nil, errors.New("connection reset")
		}}
		svc := payrollconfig.NewService(repo, forms.MustRegistry(), 200)

		_, err := svc.Get(context.Background(), companyID)

		assert.Error(t, err)
	})
}

func TestPayrollConfigService_Upsert(t *testing.T) {
	companyID := uuid.NewString()

	t.Run("saves", func(t *testing.T) {
		var saved *payrollconfig.PayrollConfig
		repo := &fakeRepo{upsertFn: func(ctx context.Context, cfg *payrollconfig.PayrollConfig) error {
			saved = cfg
			return nil
		}}
		svc := payrollconfig.NewService(repo, forms.MustRegistry(), 200)

		resp, err := svc.Upsert(context.Background(), companyID, "user-1", payrollconfig.UpsertPayrollConfigRequest{
			ServiceFeeRateBps: 250, PayDay: 27, IncludeHousingLevy: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, 250, resp.ServiceFeeRateBps)
		assert.Equal(t, companyID, saved.CompanyID.String())
		assert.Equal(t, "user-1", *saved.UpdatedBy)
		assert.True(t, saved.IncludeHousingLevy)
	})

	t.Run("pay day outside every month is rejected by the shared rule set", func(t *testing.T) {
		repo := &fakeRepo{upsertFn: func(context.Context, *payrollconfig.PayrollConfig) error {
			t.Fatal("must not persist")
			return nil
		}}
		svc := payrollconfig.NewService(repo, forms.MustRegistry(), 200)

		_, err := svc.Upsert(context.Background(), companyID, "", payrollconfig.UpsertPayrollConfigRequest{ServiceFeeRateBps: 200, PayDay: 31})

		assert.Error(t, err)
	})
}
