package app

import (
	"company-registry/internal/certificate"
	"company-registry/internal/registry"
	"company-registry/internal/registry/local"
	"company-registry/internal/registry/remote"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/config"

	"go.uber.org/zap"
)

// CLI is the registry core as regctl uses it: the registry API as
// primary, a SQLite slot file as the offline store and as the home of the
// admin session flag.
type CLI struct {
	Registration *registry.RegistrationService
	Review       *registry.ReviewService
	Lookup       *registry.LookupService
	Auth         *local.FlagAuthenticator

	slots *local.SQLiteSlot
}

func BuildCLI(cfg config.CLI, logger *zap.Logger) (*CLI, error) {
	slots, err := local.OpenSQLiteSlot(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	var (
		backend registry.Backend = local.NewBackend(slots, logger)
		client  *remote.Client
	)
	if cfg.Remote.BaseURL != "" {
		if client, err = remote.NewClient(cfg.Remote, logger); err != nil {
			_ = slots.Close()
			return nil, err
		}
		backend = registry.NewFallbackBackend(client, backend, registry.TransportFallback{}, logger)
	}

	var remoteCerts certificate.Provider
	if client != nil {
		remoteCerts = client
	}
	certs, err := certificateProvider(cfg.CertificateStrategy, remoteCerts)
	if err != nil {
		_ = slots.Close()
		return nil, err
	}

	return &CLI{
		Registration: registry.NewRegistrationService(backend, logger),
		Review:       registry.NewReviewService(backend, audit.NewZapLogger(logger), logger),
		Lookup:       registry.NewLookupService(backend, certs, logger),
		Auth:         local.NewFlagAuthenticator(cfg.Admin, slots),
		slots:        slots,
	}, nil
}

func (c *CLI) Close() error {
	return c.slots.Close()
}
