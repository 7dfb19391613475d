package payrollcycle

import (
	"errors"

	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollcycleerrors.ErrCycleNotFound
	}
	return err
}
