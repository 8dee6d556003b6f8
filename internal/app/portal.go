package app

import (
	"fmt"

	"company-registry/internal/auth"
	"company-registry/internal/middleware"
	"company-registry/internal/portal"
	"company-registry/internal/registry"
	"company-registry/internal/registry/local"
	"company-registry/internal/registry/remote"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/config"
	"company-registry/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const portalSlotPrefix = "portal:"

// BuildPortal serves the registry flows over the registry API, falling
// back to a local slot store (redis when configured, else in-process)
// while the API is unreachable.
func BuildPortal(router *gin.Engine, cfg config.Portal, logger *zap.Logger) (func(), error) {
	client, err := remote.NewClient(cfg.Remote, logger)
	if err != nil {
		return nil, err
	}

	var (
		rdb   *redis.Client
		slots local.SlotStore = local.NewMemorySlot()
	)
	if cfg.RedisAddr != "" {
		if rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries); err != nil {
			return nil, err
		}
		slots = local.NewRedisSlot(rdb, portalSlotPrefix)
	}
	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	certs, err := certificateProvider(cfg.CertificateStrategy, client)
	if err != nil {
		cleanup()
		return nil, err
	}
	rbacService, err := newRBAC(logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	backend := registry.NewFallbackBackend(client, local.NewBackend(slots, logger), registry.TransportFallback{}, logger)
	authenticator := auth.NewJWTAuthenticator(cfg.Admin, rdb, logger)

	handler := portal.NewHandler(
		registry.NewRegistrationService(backend, logger),
		registry.NewReviewService(backend, audit.NewZapLogger(logger), logger),
		registry.NewLookupService(backend, certs, logger),
		logger,
	)

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cleanup()
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	portal.RegisterRoutes(router,
		handler,
		auth.NewHandler(authenticator, config.IsProduction(cfg.Env), int(cfg.Admin.SessionTTL.Seconds()), logger),
		authenticator,
		rbacService,
	)

	return cleanup, nil
}
