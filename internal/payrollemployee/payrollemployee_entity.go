package payrollemployee

import (
	"time"

	"github.com/google/uuid"
)

// PayrollEmployee is the pay record the outsourced cycle pays out. Amount is the
// monthly gross in cents.
type PayrollEmployee struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_payroll_employee_account,priority:1"`
	FullName      string    `gorm:"type:varchar(120);not null"`
	BankCode      string    `gorm:"type:varchar(3);not null;uniqueIndex:uq_payroll_employee_account,priority:2"`
	AccountNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_payroll_employee_account,priority:3"`
	Amount        int64     `gorm:"not null;check:chk_payroll_employee_amount,amount > 0"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	CreatedBy     *string   `gorm:"type:uuid"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (PayrollEmployee) TableName() string { return "payroll_employees" }
