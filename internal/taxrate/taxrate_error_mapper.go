package taxrate

import (
	"errors"

	taxrateerrors "kazini-payroll/internal/taxrate/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return taxrateerrors.ErrNoActiveRateSet
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_tax_rate_set_version" {
		return taxrateerrors.ErrVersionConflict
	}

	return err
}
