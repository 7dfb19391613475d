package wallet

import (
	"errors"

	walleterrors "kazini-payroll/internal/wallet/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapWalletError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return walleterrors.ErrWalletNotFound
	}
	return mapConstraintError(err)
}

func mapFundingError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return walleterrors.ErrFundingRequestNotFound
	}
	return mapConstraintError(err)
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_wallet_transaction_reference":
			return walleterrors.ErrDuplicateTransaction
		case "uq_funding_mpesa_code":
			return walleterrors.ErrTransactionCodeUsed
		}
	}
	return err
}
