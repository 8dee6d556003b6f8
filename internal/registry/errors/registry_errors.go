package registryerrors

import (
	"net/http"

	"company-registry/internal/shared/apperror"
)

var (
	ErrDuplicateRegistration = apperror.New(
		apperror.CodeConflict,
		"Registration number already exists",
		http.StatusConflict,
	)

	ErrRegistrationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Registration number not found",
		http.StatusNotFound,
	)

	// ErrTransport marks a network or server failure of the registry API.
	// Attach the cause with ErrTransport.WithCause(err).
	ErrTransport = apperror.New(
		apperror.CodeServiceUnavailable,
		"Registry service is unreachable",
		http.StatusServiceUnavailable,
	)

	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Registration status cannot change from its current state",
		http.StatusConflict,
	)

	ErrCertificateUnavailable = apperror.New(
		apperror.CodeInvalidState,
		"Certificate is only available for approved registrations",
		http.StatusConflict,
	)

	ErrConfirmationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Rejection must be confirmed",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown registration status",
		http.StatusBadRequest,
	)
)
