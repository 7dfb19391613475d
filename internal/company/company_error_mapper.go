package company

import (
	"errors"

	companyerrors "kazini-payroll/internal/company/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return companyerrors.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_company_registration_number":
			return companyerrors.ErrRegistrationNumberTaken
		case "uq_company_kra_pin":
			return companyerrors.ErrKraPinTaken
		}
	}
	return err
}
