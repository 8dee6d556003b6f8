package company

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"company-registry/internal/certificate"
	"company-registry/internal/events"
	"company-registry/internal/messaging/kafka"
	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	LookupKeyPrefix      = "companies:lookup:"
	CertificateKeyPrefix = "certificates:pdf:"

	lookupTTL      = 10 * time.Minute
	certificateTTL = 24 * time.Hour
)

func GetLookupKey(key string) string {
	return LookupKeyPrefix + key
}

func GetCertificateKey(id string) string {
	return CertificateKeyPrefix + id
}

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (string, error)
	Get(ctx context.Context, key string) (registry.CompanyRegistration, error)
	List(ctx context.Context) ([]registry.CompanyRegistration, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Certificate(ctx context.Context, id string) (certificate.Artifact, error)
	WarmCertificate(ctx context.Context, id string) error
	InvalidateLookup(ctx context.Context, keys ...string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	audit  audit.Logger
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	return newService(db, repo, outboxRepo, rdb, auditLogger, time.Now, logger...)
}

// NewServiceWithClock is NewService with a fixed time source.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	auditLogger audit.Logger,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	return newService(db, repo, outboxRepo, rdb, auditLogger, now, logger...)
}

func newService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	auditLogger audit.Logger,
	now func() time.Time,
	logger ...*zap.Logger,
) *service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		audit:  auditLogger,
		sf:     &singleflight.Group{},
		now:    now,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateCompanyRequest) (string, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create company requested",
		zap.String("request_id", rid),
		zap.String("registration_number", req.RegistrationNumber),
	)

	now := s.now().UTC()
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = registry.NewID(now)
	}
	submitted := now
	if req.SubmittedDate != nil && !req.SubmittedDate.IsZero() {
		submitted = req.SubmittedDate.UTC()
	}

	comp := &Company{
		ID:                 id,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		BusinessType:       req.BusinessType,
		Address:            req.Address,
		ContactPerson:      req.ContactPerson,
		Email:              req.Email,
		Phone:              req.Phone,
		Status:             string(registry.StatusPending),
		SubmittedDate:      submitted,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create company begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return "", err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, comp); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, registryerrors.ErrDuplicateRegistration) {
			log.Warn("create company duplicate registration number",
				zap.String("registration_number", req.RegistrationNumber),
			)
		} else {
			log.Error("create company persist failed", zap.Error(err))
		}
		return "", mapped
	}

	if err := s.enqueue(ctx, tx, comp, registry.StatusPending); err != nil {
		log.Error("create company outbox persist failed", zap.String("company_id", id), zap.Error(err))
		return "", err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return "", err
	}

	log.Info("create company success",
		zap.String("request_id", rid),
		zap.String("company_id", id),
	)
	return id, nil
}

func (s *service) Get(ctx context.Context, key string) (registry.CompanyRegistration, error) {
	if strings.TrimSpace(key) == "" {
		return registry.CompanyRegistration{}, registryerrors.ErrRegistrationNotFound
	}
	cacheKey := GetLookupKey(key)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var rec registry.CompanyRegistration
			if json.Unmarshal(cached, &rec) == nil {
				return rec, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		comp, err := s.repo.FindByIDOrRegistrationNumber(ctx, key)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		rec := comp.ToRegistration()
		if s.rdb != nil {
			if payload, err := json.Marshal(rec); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, lookupTTL).Err(); err != nil {
					s.logger.Warn("cache company lookup failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return rec, nil
	})
	if err != nil {
		return registry.CompanyRegistration{}, err
	}

	return v.(registry.CompanyRegistration), nil
}

func (s *service) List(ctx context.Context) ([]registry.CompanyRegistration, error) {
	companies, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list companies failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToList(companies), nil
}

func (s *service) Approve(ctx context.Context, id string) error {
	return s.decide(ctx, id, registry.StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string) error {
	return s.decide(ctx, id, registry.StatusRejected)
}

// decide moves a pending company to a terminal status under a row lock.
// Repeating the decision already taken is a no-op.
func (s *service) decide(ctx context.Context, id string, to registry.Status) error {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide company begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	comp, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	changed, err := registry.Transition(registry.Status(comp.Status), to)
	if err != nil {
		log.Warn("illegal company status transition",
			zap.String("company_id", id),
			zap.String("from", comp.Status),
			zap.String("to", string(to)),
		)
		return err
	}
	if !changed {
		return nil
	}

	var approvedDate *time.Time
	if to == registry.StatusApproved {
		now := s.now().UTC()
		approvedDate = &now
	}

	if err := qtx.UpdateStatus(ctx, id, string(to), approvedDate); err != nil {
		log.Error("update company status failed", zap.String("company_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	comp.Status = string(to)
	comp.ApprovedDate = approvedDate

	if err := s.enqueue(ctx, tx, comp, to); err != nil {
		log.Error("decide company outbox persist failed", zap.String("company_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.InvalidateLookup(ctx, comp.ID, comp.RegistrationNumber); err != nil {
		log.Error("failed to invalidate company lookup cache", zap.String("company_id", id), zap.Error(err))
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "REGISTRATION_" + strings.ToUpper(string(to)),
		Message: comp.CompanyName + " " + string(to),
		Meta: map[string]any{
			"company_id":          comp.ID,
			"registration_number": comp.RegistrationNumber,
		},
	})
	log.Info("company status changed",
		zap.String("request_id", rid),
		zap.String("company_id", id),
		zap.String("status", string(to)),
	)
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, comp *Company, status registry.Status) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.RegistrationLifecycleEvent{
		EventType:          events.EventTypeForStatus(string(status)),
		RequestID:          rid,
		CompanyID:          comp.ID,
		RegistrationNumber: comp.RegistrationNumber,
		Status:             string(status),
		OccurredAt:         s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "company",
		AggregateID:   comp.ID,
		EventType:     event.EventType,
		Topic:         events.RegistrationLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// Certificate renders the PDF certificate of an approved company, served
// from the cache once rendered.
func (s *service) Certificate(ctx context.Context, id string) (certificate.Artifact, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return certificate.Artifact{}, err
	}
	if rec.ID != id {
		return certificate.Artifact{}, registryerrors.ErrRegistrationNotFound
	}
	if !registry.CanDownloadCertificate(rec) {
		return certificate.Artifact{}, registryerrors.ErrCertificateUnavailable
	}

	artifact := certificate.Artifact{
		FileName:    certificate.FileName(rec.RegistrationNumber, certificate.FormatPDF),
		ContentType: certificate.ContentType(certificate.FormatPDF),
	}

	cacheKey := GetCertificateKey(id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil && len(cached) > 0 {
			artifact.Body = cached
			return artifact, nil
		}
	}

	artifact.Body = certificate.RenderPDF(rec.CertificateSubject())
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey, artifact.Body, certificateTTL).Err(); err != nil {
			s.logger.Warn("cache certificate failed", zap.String("company_id", id), zap.Error(err))
		}
	}
	return artifact, nil
}

func (s *service) WarmCertificate(ctx context.Context, id string) error {
	_, err := s.Certificate(ctx, id)
	return err
}

func (s *service) InvalidateLookup(ctx context.Context, keys ...string) error {
	if s.rdb == nil {
		return nil
	}
	cacheKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			cacheKeys = append(cacheKeys, GetLookupKey(k))
		}
	}
	if len(cacheKeys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, cacheKeys...).Err()
}
