package payrollconfig

import (
	"time"

	"github.com/google/uuid"
)

type PayrollConfig struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_config_company"`
	ServiceFeeRateBps  int       `gorm:"not null"`
	PayDay             int       `gorm:"not null"`
	IncludeNhif        bool      `gorm:"not null;default:false"`
	IncludeNssf        bool      `gorm:"not null;default:false"`
	IncludeHousingLevy bool      `gorm:"not null;default:false"`
	IsPensionable      bool      `gorm:"not null;default:false"`
	UpdatedBy          *string   `gorm:"type:uuid"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (PayrollConfig) TableName() string { return "payroll_configs" }
