package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"

	"go.uber.org/zap"
)

// Backend rewrites the whole companies slot on every mutation. The mutex
// serializes read-modify-write cycles within one process only.
type Backend struct {
	mu     sync.Mutex
	slots  SlotStore
	logger *zap.Logger
}

func NewBackend(slots SlotStore, logger ...*zap.Logger) *Backend {
	l := zap.L().Named("registry.local")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.local")
	}
	return &Backend{slots: slots, logger: l}
}

func (b *Backend) load(ctx context.Context) ([]registry.CompanyRegistration, error) {
	raw, ok, err := b.slots.Get(ctx, SlotCompanies)
	if err != nil {
		return nil, fmt.Errorf("read %s slot: %w", SlotCompanies, err)
	}
	if !ok || len(raw) == 0 {
		return []registry.CompanyRegistration{}, nil
	}

	var records []registry.CompanyRegistration
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s slot: %w", SlotCompanies, err)
	}
	return records, nil
}

func (b *Backend) save(ctx context.Context, records []registry.CompanyRegistration) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := b.slots.Set(ctx, SlotCompanies, raw); err != nil {
		return fmt.Errorf("write %s slot: %w", SlotCompanies, err)
	}
	return nil
}

func (b *Backend) List(ctx context.Context) ([]registry.CompanyRegistration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

func (b *Backend) Find(ctx context.Context, key string) (registry.CompanyRegistration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return registry.CompanyRegistration{}, err
	}
	for _, r := range records {
		if r.ID == key || r.RegistrationNumber == key {
			return r, nil
		}
	}
	return registry.CompanyRegistration{}, registryerrors.ErrRegistrationNotFound
}

func (b *Backend) Create(ctx context.Context, rec registry.CompanyRegistration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.RegistrationNumber == rec.RegistrationNumber {
			return registryerrors.ErrDuplicateRegistration
		}
	}

	if err := b.save(ctx, append(records, rec)); err != nil {
		return err
	}
	b.logger.Debug("registration stored locally", zap.String("id", rec.ID))
	return nil
}

func (b *Backend) SetStatus(
	ctx context.Context,
	id string,
	status registry.Status,
	approvedDate *time.Time,
) (registry.CompanyRegistration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return registry.CompanyRegistration{}, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}

		changed, err := registry.Transition(records[i].Status, status)
		if err != nil || !changed {
			return records[i], err
		}

		records[i].Status = status
		records[i].ApprovedDate = nil
		if status == registry.StatusApproved {
			if approvedDate == nil {
				now := time.Now().UTC()
				approvedDate = &now
			}
			records[i].ApprovedDate = approvedDate
		}

		if err := b.save(ctx, records); err != nil {
			return registry.CompanyRegistration{}, err
		}
		return records[i], nil
	}
	return registry.CompanyRegistration{}, registryerrors.ErrRegistrationNotFound
}
