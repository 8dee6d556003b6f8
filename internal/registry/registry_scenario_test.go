package registry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"company-registry/internal/certificate"
	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/registry/local"
	registryMock "company-registry/internal/registry/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestScenario_SubmitApproveLookup(t *testing.T) {
	ctx := context.Background()
	backend := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	reg := registry.NewRegistrationService(backend, zap.NewNop())
	review := registry.NewReviewService(backend, nil, zap.NewNop())
	lookup := registry.NewLookupService(backend, certificate.NewTemplateProvider(certificate.FormatHTML), zap.NewNop())

	id, err := reg.Submit(ctx, registry.SubmitRequest{CompanyName: "Acme", RegistrationNumber: "RN-1"})
	assert.NoError(t, err)

	res, err := lookup.Lookup(ctx, "RN-1")
	assert.NoError(t, err)
	assert.Equal(t, registry.StatusPending, res.Registration.Status)
	assert.False(t, res.CanDownloadCertificate)

	_, err = review.Approve(ctx, id)
	assert.NoError(t, err)

	res, err = lookup.Lookup(ctx, "RN-1")
	assert.NoError(t, err)
	assert.Equal(t, registry.StatusApproved, res.Registration.Status)
	assert.NotNil(t, res.Registration.ApprovedDate)
	assert.True(t, res.CanDownloadCertificate)

	art, err := res.RequestCertificate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Certificate_RN-1.html", art.FileName)
	assert.True(t, strings.Contains(string(art.Body), "Acme"))
}

func TestScenario_DuplicateSubmission(t *testing.T) {
	ctx := context.Background()
	backend := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	reg := registry.NewRegistrationService(backend, zap.NewNop())

	_, err := reg.Submit(ctx, registry.SubmitRequest{CompanyName: "Acme", RegistrationNumber: "RN-1"})
	assert.NoError(t, err)
	_, err = reg.Submit(ctx, registry.SubmitRequest{CompanyName: "Acme again", RegistrationNumber: "RN-1"})
	assert.ErrorIs(t, err, registryerrors.ErrDuplicateRegistration)

	all, err := backend.List(ctx)
	assert.NoError(t, err)
	count := 0
	for _, r := range all {
		if r.RegistrationNumber == "RN-1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// The remote side is down for every call, so the whole flow lands in the
// local store.
func TestScenario_OfflineFallback(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := registryMock.NewMockBackend(ctrl)
	down := registryerrors.ErrTransport.WithCause(errors.New("connection refused"))
	remote.EXPECT().Find(gomock.Any(), gomock.Any()).Return(registry.CompanyRegistration{}, down).AnyTimes()
	remote.EXPECT().Create(gomock.Any(), gomock.Any()).Return(down).AnyTimes()
	remote.EXPECT().List(gomock.Any()).Return(nil, down).AnyTimes()
	remote.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registry.CompanyRegistration{}, down).AnyTimes()

	store := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	backend := registry.NewFallbackBackend(remote, store, registry.TransportFallback{}, zap.NewNop())

	reg := registry.NewRegistrationService(backend, zap.NewNop())
	review := registry.NewReviewService(backend, nil, zap.NewNop())

	id, err := reg.Submit(ctx, registry.SubmitRequest{CompanyName: "Acme", RegistrationNumber: "RN-1"})
	assert.NoError(t, err)

	d, err := review.Approve(ctx, id)
	assert.NoError(t, err)
	if assert.Len(t, d.Approved, 1) {
		assert.Equal(t, id, d.Approved[0].ID)
	}

	stored, err := store.Find(ctx, "RN-1")
	assert.NoError(t, err)
	assert.Equal(t, registry.StatusApproved, stored.Status)
}
