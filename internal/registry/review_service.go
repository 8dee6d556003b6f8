package registry

import (
	"context"
	"strings"
	"time"

	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/contextutil"

	"go.uber.org/zap"
)

type ReviewService struct {
	backend Backend
	audit   audit.Logger
	now     func() time.Time
	logger  *zap.Logger
}

func NewReviewService(backend Backend, auditLogger audit.Logger, logger ...*zap.Logger) *ReviewService {
	l := zap.L().Named("registry.review")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.review")
	}
	return &ReviewService{backend: backend, audit: auditLogger, now: time.Now, logger: l}
}

func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

func (s *ReviewService) ListPending(ctx context.Context) ([]CompanyRegistration, error) {
	records, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByStatus(records, StatusPending), nil
}

func (s *ReviewService) ListApproved(ctx context.Context) ([]CompanyRegistration, error) {
	records, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByStatus(records, StatusApproved), nil
}

// Dashboard reads the backend once and splits it into the two admin lists.
func (s *ReviewService) Dashboard(ctx context.Context) (Dashboard, error) {
	records, err := s.backend.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Pending:  filterByStatus(records, StatusPending),
		Approved: filterByStatus(records, StatusApproved),
	}, nil
}

// Approve moves a pending registration to approved and returns the re-read
// dashboard. Approving an already approved record changes nothing.
func (s *ReviewService) Approve(ctx context.Context, id string) (Dashboard, error) {
	if err := s.decide(ctx, id, StatusApproved); err != nil {
		return Dashboard{}, err
	}
	return s.Dashboard(ctx)
}

// Reject requires confirmed to be true.
func (s *ReviewService) Reject(ctx context.Context, id string, confirmed bool) (Dashboard, error) {
	if !confirmed {
		return Dashboard{}, registryerrors.ErrConfirmationRequired
	}
	if err := s.decide(ctx, id, StatusRejected); err != nil {
		return Dashboard{}, err
	}
	return s.Dashboard(ctx)
}

func (s *ReviewService) decide(ctx context.Context, id string, to Status) error {
	log := contextutil.GetLogger(ctx, s.logger)

	rec, err := s.backend.Find(ctx, id)
	if err != nil {
		log.Warn("review lookup failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if rec.ID != id {
		return registryerrors.ErrRegistrationNotFound
	}

	changed, err := Transition(rec.Status, to)
	if err != nil {
		log.Warn("review transition refused",
			zap.String("id", id),
			zap.String("from", string(rec.Status)),
			zap.String("to", string(to)),
		)
		return err
	}
	if !changed {
		return nil
	}

	var approvedDate *time.Time
	if to == StatusApproved {
		now := s.now().UTC()
		approvedDate = &now
	}
	if _, err := s.backend.SetStatus(ctx, id, to, approvedDate); err != nil {
		log.Error("review status update failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if s.audit != nil {
		s.audit.Log(ctx, audit.Entry{
			Action:  "REGISTRATION_" + strings.ToUpper(string(to)),
			Message: "registration " + string(to),
			Meta: map[string]any{
				"id":                  id,
				"registration_number": rec.RegistrationNumber,
			},
		})
	}
	log.Info("registration reviewed", zap.String("id", id), zap.String("status", string(to)))
	return nil
}
