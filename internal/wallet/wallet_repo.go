package wallet

import (
	"context"
	"database/sql"

	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=wallet_repo.go -destination=mock/wallet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateWallet(ctx context.Context, w *Wallet) error
	FindWallet(ctx context.Context, companyID string) (*Wallet, error)
	LockWallet(ctx context.Context, companyID string) (*Wallet, error)
	UpdateBalance(ctx context.Context, walletID string, balance int64) error

	CreateTransaction(ctx context.Context, t *WalletTransaction) error
	TransactionExists(ctx context.Context, reference string) (bool, error)
	FindTransactions(ctx context.Context, companyID string) ([]WalletTransaction, error)

	CreateFundingRequest(ctx context.Context, fr *WalletFundingRequest) error
	FindFundingRequest(ctx context.Context, companyID, id string) (*WalletFundingRequest, error)
	LockFundingRequest(ctx context.Context, companyID, id string) (*WalletFundingRequest, error)
	FindFundingRequests(ctx context.Context, companyID, status string) ([]WalletFundingRequest, error)
	UpdateFundingRequest(ctx context.Context, fr *WalletFundingRequest) error
	MpesaCodeUsed(ctx context.Context, code, excludeID string) (bool, error)
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

func (r *repository) CreateWallet(ctx context.Context, w *Wallet) error {
	return connection.Conn(ctx, r.db, r.tx).Create(w).Error
}

func (r *repository) FindWallet(ctx context.Context, companyID string) (*Wallet, error) {
	var w Wallet
	err := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID)).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockWallet must run inside a transaction; the row stays locked until it ends.
func (r *repository) LockWallet(ctx context.Context, companyID string) (*Wallet, error) {
	var w Wallet
	err := connection.Conn(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) UpdateBalance(ctx context.Context, walletID string, balance int64) error {
	return connection.Conn(ctx, r.db, r.tx).
		Model(&Wallet{}).
		Where("id = ?", walletID).
		Update("balance", balance).Error
}

func (r *repository) CreateTransaction(ctx context.Context, t *WalletTransaction) error {
	return connection.Conn(ctx, r.db, r.tx).Create(t).Error
}

func (r *repository) TransactionExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := connection.Conn(ctx, r.db, r.tx).
		Model(&WalletTransaction{}).
		Where("reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindTransactions(ctx context.Context, companyID string) ([]WalletTransaction, error) {
	var txs []WalletTransaction
	err := connection.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *repository) CreateFundingRequest(ctx context.Context, fr *WalletFundingRequest) error {
	return connection.Conn(ctx, r.db, r.tx).Create(fr).Error
}

func (r *repository) FindFundingRequest(ctx context.Context, companyID, id string) (*WalletFundingRequest, error) {
	var fr WalletFundingRequest
	err := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID)).First(&fr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *repository) LockFundingRequest(ctx context.Context, companyID, id string) (*WalletFundingRequest, error) {
	var fr WalletFundingRequest
	err := connection.Conn(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&fr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *repository) FindFundingRequests(ctx context.Context, companyID, status string) ([]WalletFundingRequest, error) {
	var out []WalletFundingRequest
	q := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) UpdateFundingRequest(ctx context.Context, fr *WalletFundingRequest) error {
	return connection.Conn(ctx, r.db, r.tx).Save(fr).Error
}

// MpesaCodeUsed reports whether another completed request already consumed code.
func (r *repository) MpesaCodeUsed(ctx context.Context, code, excludeID string) (bool, error) {
	var count int64
	q := connection.Conn(ctx, r.db, r.tx).
		Model(&WalletFundingRequest{}).
		Where("mpesa_transaction_code = ? AND status = ?", code, FundingCompleted)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
