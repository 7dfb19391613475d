package bankcode

import "time"

// BankCode is a row of the bank reference table used to validate payout accounts.
type BankCode struct {
	Code           string    `gorm:"primaryKey;size:8"`
	Name           string    `gorm:"size:120;not null"`
	AccountPattern string    `gorm:"size:120;not null"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (BankCode) TableName() string { return "bank_codes" }
