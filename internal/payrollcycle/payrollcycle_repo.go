package payrollcycle

import (
	"context"
	"database/sql"
	"time"

	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payrollcycle_repo.go -destination=mock/payrollcycle_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	EnsurePending(ctx context.Context, companyID string) (*PayrollCycle, error)
	FindPending(ctx context.Context, companyID string) (*PayrollCycle, error)
	CreateCycle(ctx context.Context, cycle *PayrollCycle) error
	UpdateCycle(ctx context.Context, cycle *PayrollCycle) error
	LockByID(ctx context.Context, companyID, id string) (*PayrollCycle, error)
	FindByID(ctx context.Context, companyID, id string) (*PayrollCycle, error)
	FindAll(ctx context.Context, companyID, status string) ([]PayrollCycle, error)
	CreateItems(ctx context.Context, items []PayrollCycleItem) error
	FindItems(ctx context.Context, companyID, cycleID string) ([]PayrollCycleItem, error)
	SetReportURL(ctx context.Context, companyID, cycleID, url string) error
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

// EnsurePending opens the company's PENDING cycle if none exists and returns
// it locked. Must run inside a transaction.
func (r *repository) EnsurePending(ctx context.Context, companyID string) (*PayrollCycle, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, err
	}

	fresh := PayrollCycle{ID: uuid.New(), CompanyID: companyUUID, Status: StatusPending}
	err = connection.Conn(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "company_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status = 'PENDING'"}}},
			DoNothing:   true,
		}).
		Create(&fresh).Error
	if err != nil {
		return nil, err
	}

	var cycle PayrollCycle
	err = connection.Conn(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusPending).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) FindPending(ctx context.Context, companyID string) (*PayrollCycle, error) {
	var cycle PayrollCycle
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusPending).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) CreateCycle(ctx context.Context, cycle *PayrollCycle) error {
	return connection.Conn(ctx, r.db, r.tx).Create(cycle).Error
}

func (r *repository) UpdateCycle(ctx context.Context, cycle *PayrollCycle) error {
	cycle.UpdatedAt = time.Now()
	return connection.Conn(ctx, r.db, r.tx).Save(cycle).Error
}

// LockByID takes a row lock that serialises disbursement of one cycle.
func (r *repository) LockByID(ctx context.Context, companyID, id string) (*PayrollCycle, error) {
	var cycle PayrollCycle
	err := connection.Conn(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&cycle, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*PayrollCycle, error) {
	var cycle PayrollCycle
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&cycle, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) FindAll(ctx context.Context, companyID, status string) ([]PayrollCycle, error) {
	var cycles []PayrollCycle
	q := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("cycle_count DESC NULLS FIRST").Find(&cycles).Error
	return cycles, err
}

func (r *repository) CreateItems(ctx context.Context, items []PayrollCycleItem) error {
	if len(items) == 0 {
		return nil
	}
	return connection.Conn(ctx, r.db, r.tx).CreateInBatches(&items, 500).Error
}

func (r *repository) FindItems(ctx context.Context, companyID, cycleID string) ([]PayrollCycleItem, error) {
	var items []PayrollCycleItem
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Where("cycle_id = ?", cycleID).
		Order("full_name ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) SetReportURL(ctx context.Context, companyID, cycleID, url string) error {
	return connection.Conn(ctx, r.db, r.tx).
		Model(&PayrollCycle{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", cycleID).
		Update("report_url", url).Error
}
