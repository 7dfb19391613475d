package bankcode

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=bankcode_repo.go -destination=mock/bankcode_repo_mock.go -package=mock
type Repository interface {
	FindActive(ctx context.Context) ([]BankCode, error)
	FindByCodes(ctx context.Context, codes []string) ([]BankCode, error)
	Upsert(ctx context.Context, codes []BankCode) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(ctx context.Context) ([]BankCode, error) {
	var codes []BankCode
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&codes).Error
	return codes, err
}

func (r *repository) FindByCodes(ctx context.Context, codes []string) ([]BankCode, error) {
	var out []BankCode
	if len(codes) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("code IN ? AND is_active = ?", codes, true).Find(&out).Error
	return out, err
}

func (r *repository) Upsert(ctx context.Context, codes []BankCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "account_pattern", "is_active", "updated_at"}),
	}).Create(&codes).Error
}
