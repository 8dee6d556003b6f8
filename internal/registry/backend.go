package registry

import (
	"context"
	"errors"
	"time"

	registryerrors "company-registry/internal/registry/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=backend.go -destination=mock/backend_mock.go -package=mock
type Backend interface {
	List(ctx context.Context) ([]CompanyRegistration, error)
	// Find matches key against the record id or its registration number.
	Find(ctx context.Context, key string) (CompanyRegistration, error)
	Create(ctx context.Context, rec CompanyRegistration) error
	SetStatus(ctx context.Context, id string, status Status, approvedDate *time.Time) (CompanyRegistration, error)
}

// findByRegistrationNumber resolves key as a registration number only.
// Find prefers an id match, so when the hit belongs to another record the
// full list is scanned instead.
func findByRegistrationNumber(ctx context.Context, backend Backend, registrationNumber string) (CompanyRegistration, error) {
	rec, err := backend.Find(ctx, registrationNumber)
	if err != nil {
		return CompanyRegistration{}, err
	}
	if rec.RegistrationNumber == registrationNumber {
		return rec, nil
	}

	records, err := backend.List(ctx)
	if err != nil {
		return CompanyRegistration{}, err
	}
	for _, r := range records {
		if r.RegistrationNumber == registrationNumber {
			return r, nil
		}
	}
	return CompanyRegistration{}, registryerrors.ErrRegistrationNotFound
}

// FallbackPolicy decides whether an operation that failed on the primary
// backend is retried on the secondary one.
type FallbackPolicy interface {
	ShouldFallback(op string, err error) bool
}

type FallbackFunc func(op string, err error) bool

func (f FallbackFunc) ShouldFallback(op string, err error) bool { return f(op, err) }

// TransportFallback falls back on transport failures only. Application
// rejections from the primary (not found, duplicate, illegal transition)
// are returned as is.
type TransportFallback struct{}

func (TransportFallback) ShouldFallback(_ string, err error) bool {
	return errors.Is(err, registryerrors.ErrTransport)
}

// FallbackBackend tries primary first and repeats the same operation on
// secondary when the policy allows it. The two stores are never
// reconciled.
type FallbackBackend struct {
	primary   Backend
	secondary Backend
	policy    FallbackPolicy
	logger    *zap.Logger
}

func NewFallbackBackend(primary, secondary Backend, policy FallbackPolicy, logger ...*zap.Logger) *FallbackBackend {
	l := zap.L().Named("registry.fallback")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.fallback")
	}
	if policy == nil {
		policy = TransportFallback{}
	}
	return &FallbackBackend{primary: primary, secondary: secondary, policy: policy, logger: l}
}

func (b *FallbackBackend) fallback(op string, err error) bool {
	if err == nil || b.secondary == nil || !b.policy.ShouldFallback(op, err) {
		return false
	}
	b.logger.Warn("primary backend failed, using local store",
		zap.String("op", op),
		zap.Error(err),
	)
	return true
}

func (b *FallbackBackend) List(ctx context.Context) ([]CompanyRegistration, error) {
	records, err := b.primary.List(ctx)
	if b.fallback("list", err) {
		return b.secondary.List(ctx)
	}
	return records, err
}

func (b *FallbackBackend) Find(ctx context.Context, key string) (CompanyRegistration, error) {
	rec, err := b.primary.Find(ctx, key)
	if b.fallback("find", err) {
		return b.secondary.Find(ctx, key)
	}
	return rec, err
}

func (b *FallbackBackend) Create(ctx context.Context, rec CompanyRegistration) error {
	err := b.primary.Create(ctx, rec)
	if b.fallback("create", err) {
		return b.secondary.Create(ctx, rec)
	}
	return err
}

func (b *FallbackBackend) SetStatus(ctx context.Context, id string, status Status, approvedDate *time.Time) (CompanyRegistration, error) {
	rec, err := b.primary.SetStatus(ctx, id, status, approvedDate)
	if b.fallback("set_status", err) {
		return b.secondary.SetStatus(ctx, id, status, approvedDate)
	}
	return rec, err
}
