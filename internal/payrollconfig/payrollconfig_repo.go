package payrollconfig

import (
	"context"
	"database/sql"

	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payrollconfig_repo.go -destination=mock/payrollconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByCompany(ctx context.Context, companyID string) (*PayrollConfig, error)
	Upsert(ctx context.Context, cfg *PayrollConfig) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindByCompany(ctx context.Context, companyID string) (*PayrollConfig, error) {
	var cfg PayrollConfig
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) Upsert(ctx context.Context, cfg *PayrollConfig) error {
	return connection.Conn(ctx, r.db, r.tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"service_fee_rate_bps", "pay_day", "include_nhif", "include_nssf",
			"include_housing_levy", "is_pensionable", "updated_by", "updated_at",
		}),
	}).Create(cfg).Error
}
