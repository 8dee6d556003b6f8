package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	registryMock "company-registry/internal/registry/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fallbackDeps struct {
	primary   *registryMock.MockBackend
	secondary *registryMock.MockBackend
	backend   *registry.FallbackBackend
	logs      *observer.ObservedLogs
}

func setupFallbackTest(t *testing.T, policy registry.FallbackPolicy) *fallbackDeps {
	ctrl := gomock.NewController(t)
	core, logs := observer.New(zap.WarnLevel)

	primary := registryMock.NewMockBackend(ctrl)
	secondary := registryMock.NewMockBackend(ctrl)

	return &fallbackDeps{
		primary:   primary,
		secondary: secondary,
		backend:   registry.NewFallbackBackend(primary, secondary, policy, zap.New(core)),
		logs:      logs,
	}
}

func transportErr() error {
	return registryerrors.ErrTransport.WithCause(errors.New("dial tcp: connection refused"))
}

func TestFallbackBackend_List(t *testing.T) {
	ctx := context.Background()
	local := []registry.CompanyRegistration{{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1"}}

	t.Run("primary ok", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		deps.primary.EXPECT().List(ctx).Return(local, nil)

		got, err := deps.backend.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, local, got)
		assert.Zero(t, deps.logs.Len())
	})

	t.Run("transport error falls back and warns", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		deps.primary.EXPECT().List(ctx).Return(nil, transportErr())
		deps.secondary.EXPECT().List(ctx).Return(local, nil)

		got, err := deps.backend.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, local, got)
		assert.Equal(t, 1, deps.logs.FilterField(zap.String("op", "list")).Len())
	})

	t.Run("plain error is returned", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		deps.primary.EXPECT().List(ctx).Return(nil, errors.New("decode failed"))

		_, err := deps.backend.List(ctx)
		assert.EqualError(t, err, "decode failed")
	})
}

func TestFallbackBackend_ApplicationRejectionsDoNotFallBack(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		deps.primary.EXPECT().Find(ctx, "RN-1").Return(registry.CompanyRegistration{}, registryerrors.ErrRegistrationNotFound)

		_, err := deps.backend.Find(ctx, "RN-1")
		assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
	})

	t.Run("duplicate", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		rec := registry.CompanyRegistration{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1"}
		deps.primary.EXPECT().Create(ctx, rec).Return(registryerrors.ErrDuplicateRegistration)

		err := deps.backend.Create(ctx, rec)
		assert.ErrorIs(t, err, registryerrors.ErrDuplicateRegistration)
	})

	t.Run("illegal transition", func(t *testing.T) {
		deps := setupFallbackTest(t, nil)
		deps.primary.EXPECT().SetStatus(ctx, "REG-1-AAAAA", registry.StatusRejected, nil).
			Return(registry.CompanyRegistration{}, registryerrors.ErrInvalidStatusTransition)

		_, err := deps.backend.SetStatus(ctx, "REG-1-AAAAA", registry.StatusRejected, nil)
		assert.ErrorIs(t, err, registryerrors.ErrInvalidStatusTransition)
	})
}

func TestFallbackBackend_WritesFallBack(t *testing.T) {
	ctx := context.Background()
	rec := registry.CompanyRegistration{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1"}
	now := time.Now()

	deps := setupFallbackTest(t, nil)
	deps.primary.EXPECT().Create(ctx, rec).Return(transportErr())
	deps.secondary.EXPECT().Create(ctx, rec).Return(nil)
	deps.primary.EXPECT().SetStatus(ctx, rec.ID, registry.StatusApproved, &now).
		Return(registry.CompanyRegistration{}, transportErr())
	deps.secondary.EXPECT().SetStatus(ctx, rec.ID, registry.StatusApproved, &now).
		Return(registry.CompanyRegistration{ID: rec.ID, Status: registry.StatusApproved}, nil)

	assert.NoError(t, deps.backend.Create(ctx, rec))
	got, err := deps.backend.SetStatus(ctx, rec.ID, registry.StatusApproved, &now)
	assert.NoError(t, err)
	assert.Equal(t, registry.StatusApproved, got.Status)
	assert.Equal(t, 2, deps.logs.Len())
}

func TestFallbackBackend_InjectedPolicy(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	policy := registryMock.NewMockFallbackPolicy(ctrl)
	deps := setupFallbackTest(t, policy)

	notFound := registryerrors.ErrRegistrationNotFound
	deps.primary.EXPECT().Find(ctx, "RN-1").Return(registry.CompanyRegistration{}, notFound)
	policy.EXPECT().ShouldFallback("find", notFound).Return(true)
	deps.secondary.EXPECT().Find(ctx, "RN-1").Return(registry.CompanyRegistration{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1"}, nil)

	rec, err := deps.backend.Find(ctx, "RN-1")
	assert.NoError(t, err)
	assert.Equal(t, "REG-1-AAAAA", rec.ID)
}

func TestFallbackBackend_NoSecondary(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	primary := registryMock.NewMockBackend(ctrl)
	b := registry.NewFallbackBackend(primary, nil, nil, zap.NewNop())

	primary.EXPECT().List(ctx).Return(nil, transportErr())
	_, err := b.List(ctx)
	assert.ErrorIs(t, err, registryerrors.ErrTransport)
}

func TestTransportFallback(t *testing.T) {
	p := registry.TransportFallback{}
	assert.True(t, p.ShouldFallback("list", transportErr()))
	assert.True(t, p.ShouldFallback("list", registryerrors.ErrTransport))
	assert.False(t, p.ShouldFallback("list", registryerrors.ErrRegistrationNotFound))
	assert.False(t, p.ShouldFallback("list", errors.New("other")))
}
