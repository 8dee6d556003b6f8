package registry_test

import (
	"context"
	"testing"
	"time"

	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/registry/local"
	"company-registry/internal/shared/audit"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Log(_ context.Context, e audit.Entry) { r.entries = append(r.entries, e) }

type reviewDeps struct {
	backend *local.Backend
	audit   *recordingAudit
	service *registry.ReviewService
}

func setupReviewTest(t *testing.T, records ...registry.CompanyRegistration) *reviewDeps {
	t.Helper()
	backend := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	for _, r := range records {
		assert.NoError(t, backend.Create(context.Background(), r))
	}
	rec := &recordingAudit{}
	return &reviewDeps{
		backend: backend,
		audit:   rec,
		service: registry.NewReviewService(backend, rec, zap.NewNop()).WithClock(clock),
	}
}

func pending(id, regNo string) registry.CompanyRegistration {
	return registry.CompanyRegistration{
		ID:                 id,
		CompanyName:        "Co " + regNo,
		RegistrationNumber: regNo,
		Status:             registry.StatusPending,
		SubmittedDate:      fixedNow.Add(-24 * time.Hour),
	}
}

func TestReviewService_Lists(t *testing.T) {
	ctx := context.Background()
	deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"), pending("REG-2-BBBBB", "RN-2"), pending("REG-3-CCCCC", "RN-3"))

	_, err := deps.service.Approve(ctx, "REG-2-BBBBB")
	assert.NoError(t, err)
	_, err = deps.service.Reject(ctx, "REG-3-CCCCC", true)
	assert.NoError(t, err)

	p, err := deps.service.ListPending(ctx)
	assert.NoError(t, err)
	if assert.Len(t, p, 1) {
		assert.Equal(t, "REG-1-AAAAA", p[0].ID)
	}

	a, err := deps.service.ListApproved(ctx)
	assert.NoError(t, err)
	if assert.Len(t, a, 1) {
		assert.Equal(t, "REG-2-BBBBB", a[0].ID)
	}

	d, err := deps.service.Dashboard(ctx)
	assert.NoError(t, err)
	assert.Len(t, d.Pending, 1)
	assert.Len(t, d.Approved, 1)
}

func TestReviewService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("sets approvedDate and returns fresh dashboard", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))

		d, err := deps.service.Approve(ctx, "REG-1-AAAAA")
		assert.NoError(t, err)
		assert.Empty(t, d.Pending)
		if assert.Len(t, d.Approved, 1) {
			assert.True(t, fixedNow.Equal(*d.Approved[0].ApprovedDate))
		}
		if assert.Len(t, deps.audit.entries, 1) {
			assert.Equal(t, "REGISTRATION_APPROVED", deps.audit.entries[0].Action)
		}
	})

	t.Run("second approve is a no-op", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))

		first, err := deps.service.Approve(ctx, "REG-1-AAAAA")
		assert.NoError(t, err)
		deps.service.WithClock(func() time.Time { return fixedNow.Add(time.Hour) })
		second, err := deps.service.Approve(ctx, "REG-1-AAAAA")
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, deps.audit.entries, 1)
	})

	t.Run("rejected record cannot be approved", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))
		_, err := deps.service.Reject(ctx, "REG-1-AAAAA", true)
		assert.NoError(t, err)

		_, err = deps.service.Approve(ctx, "REG-1-AAAAA")
		assert.ErrorIs(t, err, registryerrors.ErrInvalidStatusTransition)
	})

	t.Run("unknown id", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))
		_, err := deps.service.Approve(ctx, "REG-9-ZZZZZ")
		assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
	})

	t.Run("registration number is not an id", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))
		_, err := deps.service.Approve(ctx, "RN-1")
		assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
	})
}

func TestReviewService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("requires confirmation", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))

		_, err := deps.service.Reject(ctx, "REG-1-AAAAA", false)
		assert.ErrorIs(t, err, registryerrors.ErrConfirmationRequired)

		rec, _ := deps.backend.Find(ctx, "REG-1-AAAAA")
		assert.Equal(t, registry.StatusPending, rec.Status)
	})

	t.Run("confirmed reject", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))

		d, err := deps.service.Reject(ctx, "REG-1-AAAAA", true)
		assert.NoError(t, err)
		assert.Empty(t, d.Pending)
		assert.Empty(t, d.Approved)

		rec, _ := deps.backend.Find(ctx, "REG-1-AAAAA")
		assert.Equal(t, registry.StatusRejected, rec.Status)
		assert.Nil(t, rec.ApprovedDate)
	})

	t.Run("approved record cannot be rejected", func(t *testing.T) {
		deps := setupReviewTest(t, pending("REG-1-AAAAA", "RN-1"))
		_, err := deps.service.Approve(ctx, "REG-1-AAAAA")
		assert.NoError(t, err)

		_, err = deps.service.Reject(ctx, "REG-1-AAAAA", true)
		assert.ErrorIs(t, err, registryerrors.ErrInvalidStatusTransition)
	})
}
