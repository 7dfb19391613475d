package wallet

import (
	"time"

	"github.com/google/uuid"
)

const (
	MethodBankTransfer = "bank_transfer"
	MethodMpesa        = "mpesa"

	FundingPending         = "pending"
	FundingPendingApproval = "pending_approval"
	FundingCompleted       = "completed"
	FundingFailed          = "failed"

	DirectionCredit = "credit"
	DirectionDebit  = "debit"

	TxTypeFunding      = "funding"
	TxTypeDisbursement = "payroll_disbursement"

	DefaultCurrency = "KES"
)

// Wallet holds a company's prefunded balance in cents.
type Wallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_wallet_company"`
	Balance   int64     `gorm:"not null;default:0;check:chk_wallet_balance,balance >= 0"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'KES'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string { return "wallets" }

// WalletTransaction is an append-only ledger line. Reference is unique, which
// caps every funding request and every payroll cycle at one movement.
type WalletTransaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction    string    `gorm:"type:varchar(10);not null"`
	Type         string    `gorm:"type:varchar(32);not null"`
	Amount       int64     `gorm:"not null;check:chk_wallet_tx_amount,amount > 0"`
	BalanceAfter int64     `gorm:"not null"`
	Reference    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_wallet_transaction_reference"`
	Description  string    `gorm:"type:varchar(255)"`
	CreatedBy    *string   `gorm:"type:uuid"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }

type WalletFundingRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	WalletID      uuid.UUID `gorm:"type:uuid;not null"`
	Amount        int64     `gorm:"not null;check:chk_funding_amount,amount > 0"`
	PaymentMethod string    `gorm:"type:varchar(20);not null"`
	Reference     string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_funding_reference"`
	Status        string    `gorm:"type:varchar(20);not null;index"`

	BankReference        *string
	ProofAmount          *int64
	TransferDate         *time.Time `gorm:"type:date"`
	MpesaTransactionCode *string    `gorm:"type:varchar(20);uniqueIndex:uq_funding_mpesa_code,where:status = 'completed'"`
	ProofSubmittedAt     *time.Time

	StatementReference *string
	VerifiedBy         *string `gorm:"type:uuid"`
	VerifiedAt         *time.Time
	FailureReason      *string

	CreatedBy *string   `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (WalletFundingRequest) TableName() string { return "wallet_funding_requests" }
