package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company owns its employees, payroll cycles, payroll config and exactly one
// wallet.
type Company struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name               string         `gorm:"type:varchar(120);not null"`
	RegistrationNumber string         `gorm:"type:varchar(30);not null;uniqueIndex:uq_company_registration_number"`
	KraPin             string         `gorm:"column:kra_pin;type:varchar(11);not null;uniqueIndex:uq_company_kra_pin"`
	Email              string         `gorm:"type:varchar(254);not null;index"`
	Phone              string         `gorm:"type:varchar(20);not null"`
	IsActive           bool           `gorm:"not null;default:true"`
	CreatedBy          string         `gorm:"type:uuid;not null"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}
