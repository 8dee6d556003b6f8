package registry

import (
	"context"
	"errors"
	"time"

	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/shared/contextutil"

	"go.uber.org/zap"
)

type RegistrationService struct {
	backend Backend
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistrationService(backend Backend, logger ...*zap.Logger) *RegistrationService {
	l := zap.L().Named("registry.registration")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.registration")
	}
	return &RegistrationService{backend: backend, now: time.Now, logger: l}
}

// WithClock replaces the time source used for ids and submission dates.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// Submit stores a new pending registration and returns its id. The
// uniqueness check is best effort: two concurrent submissions of the same
// registration number can both pass it.
func (s *RegistrationService) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.now().UTC()

	rec := CompanyRegistration{
		ID:                 NewID(now),
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		BusinessType:       req.BusinessType,
		Address:            req.Address,
		ContactPerson:      req.ContactPerson,
		Email:              req.Email,
		Phone:              req.Phone,
		Status:             StatusPending,
		SubmittedDate:      now,
	}

	_, err := findByRegistrationNumber(ctx, s.backend, req.RegistrationNumber)
	switch {
	case err == nil:
		log.Info("submit rejected, duplicate registration number",
			zap.String("registration_number", req.RegistrationNumber),
		)
		return "", registryerrors.ErrDuplicateRegistration
	case err != nil && !errors.Is(err, registryerrors.ErrRegistrationNotFound):
		log.Error("submit uniqueness check failed", zap.Error(err))
		return "", err
	}

	if err := s.backend.Create(ctx, rec); err != nil {
		log.Error("submit persist failed",
			zap.String("registration_number", req.RegistrationNumber),
			zap.Error(err),
		)
		return "", err
	}

	log.Info("registration submitted",
		zap.String("id", rec.ID),
		zap.String("registration_number", rec.RegistrationNumber),
	)
	return rec.ID, nil
}
