package payrollemployee

import (
	"context"
	"database/sql"

	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollemployee_repo.go -destination=mock/payrollemployee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *PayrollEmployee) error
	CreateBatch(ctx context.Context, emps []PayrollEmployee) error
	FindByID(ctx context.Context, companyID, id string) (*PayrollEmployee, error)
	FindAll(ctx context.Context, companyID string, activeOnly bool) ([]PayrollEmployee, error)
	FindActive(ctx context.Context, companyID string) ([]PayrollEmployee, error)
	Update(ctx context.Context, emp *PayrollEmployee) error
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

func (r *repository) Create(ctx context.Context, emp *PayrollEmployee) error {
	return connection.Conn(ctx, r.db, r.tx).Create(emp).Error
}

func (r *repository) CreateBatch(ctx context.Context, emps []PayrollEmployee) error {
	if len(emps) == 0 {
		return nil
	}
	return connection.Conn(ctx, r.db, r.tx).CreateInBatches(&emps, 200).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*PayrollEmployee, error) {
	var emp PayrollEmployee
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindAll(ctx context.Context, companyID string, activeOnly bool) ([]PayrollEmployee, error) {
	var emps []PayrollEmployee
	q := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("full_name ASC, id ASC").Find(&emps).Error
	return emps, err
}

func (r *repository) FindActive(ctx context.Context, companyID string) ([]PayrollEmployee, error) {
	return r.FindAll(ctx, companyID, true)
}

func (r *repository) Update(ctx context.Context, emp *PayrollEmployee) error {
	return connection.Conn(ctx, r.db, r.tx).Save(emp).Error
}
