package company

import (
	"context"
	"database/sql"

	"kazini-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, company *Company) error
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

func (r *repository) Create(ctx context.Context, company *Company) error {
	return connection.Conn(ctx, r.db, r.tx).Create(company).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Company, error) {
	var company Company
	if err := connection.Conn(ctx, r.db, r.tx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	return connection.Conn(ctx, r.db, r.tx).Save(company).Error
}
