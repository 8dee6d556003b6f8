package registry

import (
	"context"

	"company-registry/internal/certificate"

	"go.uber.org/zap"
)

type LookupService struct {
	backend Backend
	certs   certificate.Provider
	logger  *zap.Logger
}

func NewLookupService(backend Backend, certs certificate.Provider, logger ...*zap.Logger) *LookupService {
	l := zap.L().Named("registry.lookup")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.lookup")
	}
	return &LookupService{backend: backend, certs: certs, logger: l}
}

// Lookup finds a registration by its exact registration number.
func (s *LookupService) Lookup(ctx context.Context, registrationNumber string) (StatusResult, error) {
	rec, err := findByRegistrationNumber(ctx, s.backend, registrationNumber)
	if err != nil {
		return StatusResult{}, err
	}

	res := StatusResult{
		Registration:           rec,
		CanDownloadCertificate: CanDownloadCertificate(rec),
	}
	if res.CanDownloadCertificate {
		res.provider = s.certs
	}
	s.logger.Debug("status lookup",
		zap.String("registration_number", registrationNumber),
		zap.String("status", string(rec.Status)),
	)
	return res, nil
}
