package autherrors

import (
	"net/http"

	"company-registry/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorized,
		"Admin session required",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Session is invalid or expired",
		http.StatusUnauthorized,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to create session",
		http.StatusInternalServerError,
	)
)
