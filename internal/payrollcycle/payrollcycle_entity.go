package payrollcycle

import (
	"time"

	"github.com/google/uuid"
)

// PayrollCycle totals are in cents and frozen once the cycle is processed.
// CycleCount is assigned at processing; the open PENDING cycle has none.
type PayrollCycle struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_payroll_cycle_count,priority:1;uniqueIndex:uq_payroll_cycle_pending,where:status = 'PENDING'"`
	CycleCount    *int64     `gorm:"uniqueIndex:uq_payroll_cycle_count,priority:2"`
	RunDate       *time.Time `gorm:"type:date"`
	Status        string     `gorm:"type:varchar(16);not null;index"`
	EmployeeCount int        `gorm:"not null;default:0"`

	TotalGrossPay            int64 `gorm:"not null;default:0"`
	TotalNetPay              int64 `gorm:"not null;default:0"`
	TotalPayeTax             int64 `gorm:"not null;default:0"`
	TotalStatutoryDeductions int64 `gorm:"not null;default:0"`
	TotalKaziniHRFees        int64 `gorm:"column:total_kazinihr_fees;not null;default:0"`
	TotalDisbursementAmount  int64 `gorm:"not null;default:0"`
	ServiceFeeRateBps        int   `gorm:"not null;default:0"`
	TaxYear                  *int
	RateSetVersion           *int
	WalletTransactionID      *uuid.UUID `gorm:"type:uuid"`

	ProcessedBy *string `gorm:"type:uuid"`
	ProcessedAt *time.Time
	DisbursedBy *string `gorm:"type:uuid"`
	DisbursedAt *time.Time
	ReportURL   *string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PayrollCycle) TableName() string { return "payroll_cycles" }

// PayrollCycleItem snapshots one employee's pay at processing time so later
// edits to the pay record do not change history.
type PayrollCycleItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CycleID             uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeID          uuid.UUID `gorm:"type:uuid;not null"`
	FullName            string    `gorm:"type:varchar(120);not null"`
	BankCode            string    `gorm:"type:varchar(3);not null"`
	AccountNumber       string    `gorm:"type:varchar(20);not null"`
	GrossPay            int64     `gorm:"not null"`
	PayeTax             int64     `gorm:"not null"`
	StatutoryDeductions int64     `gorm:"not null"`
	NetPay              int64     `gorm:"not null"`
	ServiceFee          int64     `gorm:"not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

func (PayrollCycleItem) TableName() string { return "payroll_cycle_items" }
