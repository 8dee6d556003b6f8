package company

import (
	"errors"
	"strings"

	registryerrors "company-registry/internal/registry/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const registrationNumberConstraint = "uq_companies_registration_number"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return registryerrors.ErrRegistrationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// The primary key collides only when a client reuses an id.
		return registryerrors.ErrDuplicateRegistration
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, registrationNumberConstraint) {
		return registryerrors.ErrDuplicateRegistration
	}

	return err
}
