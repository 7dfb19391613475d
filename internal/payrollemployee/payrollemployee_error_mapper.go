package payrollemployee

import (
	"errors"

	payrollemployeeerrors "kazini-payroll/internal/payrollemployee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollemployeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_employee_account" {
		return payrollemployeeerrors.ErrDuplicateAccount
	}

	return err
}
