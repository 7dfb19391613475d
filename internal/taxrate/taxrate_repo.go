package taxrate

import (
	"context"
	"database/sql"
	"time"

	"kazini-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxrate_repo.go -destination=mock/taxrate_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindCurrent(ctx context.Context, at time.Time) (*TaxRateSet, error)
	FindAll(ctx context.Context) ([]TaxRateSet, error)
	Count(ctx context.Context) (int64, error)
	NextVersion(ctx context.Context, taxYear int) (int, error)
	DeactivateYear(ctx context.Context, taxYear int) error
	Create(ctx context.Context, set *TaxRateSet) error
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

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Bands", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("NHIFBrackets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindCurrent returns the active set with the latest effective date on or before at.
func (r *repository) FindCurrent(ctx context.Context, at time.Time) (*TaxRateSet, error) {
	var set TaxRateSet
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(withChildren).
		Where("is_active = ?", true).
		Where("effective_from <= ?", at).
		Order("effective_from DESC, version DESC").
		First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *repository) FindAll(ctx context.Context) ([]TaxRateSet, error) {
	var sets []TaxRateSet
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(withChildren).
		Order("tax_year DESC, version DESC").
		Find(&sets).Error
	return sets, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := connection.Conn(ctx, r.db, r.tx).Model(&TaxRateSet{}).Count(&n).Error
	return n, err
}

func (r *repository) NextVersion(ctx context.Context, taxYear int) (int, error) {
	var current int
	err := connection.Conn(ctx, r.db, r.tx).
		Model(&TaxRateSet{}).
		Where("tax_year = ?", taxYear).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error
	return current + 1, err
}

func (r *repository) DeactivateYear(ctx context.Context, taxYear int) error {
	return connection.Conn(ctx, r.db, r.tx).
		Model(&TaxRateSet{}).
		Where("tax_year = ? AND is_active = ?", taxYear, true).
		Update("is_active", false).Error
}

func (r *repository) Create(ctx context.Context, set *TaxRateSet) error {
	return connection.Conn(ctx, r.db, r.tx).Create(set).Error
}
