// Package app wires configuration, infrastructure and feature packages
// into the runnable processes under cmd/.
package app

import (
	"context"
	"fmt"

	"company-registry/internal/auth"
	"company-registry/internal/certificate"
	"company-registry/internal/company"
	"company-registry/internal/messaging/kafka"
	"company-registry/internal/middleware"
	"company-registry/internal/rbac"
	"company-registry/internal/rbac/infra"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/config"
	"company-registry/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectRetries = 5

// BuildAPI connects the registry API to postgres (and redis when
// configured) and registers its routes on router. The returned func
// releases the connections.
func BuildAPI(router *gin.Engine, cfg config.API, logger *zap.Logger) (func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}

	ctx := context.Background()
	companyRepo := company.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	if err := companyRepo.Migrate(ctx); err != nil {
		cleanup()
		return nil, fmt.Errorf("migrate companies: %w", err)
	}
	if err := outboxRepo.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, err
	}

	rbacService, err := newRBAC(logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	authenticator := auth.NewJWTAuthenticator(cfg.Admin, rdb, logger)
	companyService := company.NewService(sqlDB, companyRepo, outboxRepo, rdb, audit.NewZapLogger(logger), logger)

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cleanup()
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	// Mounts CORS, so it must come before any other route.
	company.RegisterRoutes(router, company.NewHandler(companyService, logger), authenticator, rbacService, rdb)
	auth.RegisterRoutes(router,
		auth.NewHandler(authenticator, config.IsProduction(cfg.Env), int(cfg.Admin.SessionTTL.Seconds()), logger),
		middleware.RateLimitByIP(0.2, 5),
	)

	return cleanup, nil
}

func newRBAC(logger *zap.Logger) (rbac.Service, error) {
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("build rbac enforcer: %w", err)
	}
	return rbac.NewService(enforcer, logger), nil
}

// certificateProvider picks the certificate source named by strategy.
// remote is used for the remote strategy.
func certificateProvider(strategy string, remote certificate.Provider) (certificate.Provider, error) {
	switch strategy {
	case "", certificate.StrategyTemplate:
		return certificate.NewTemplateProvider(certificate.FormatPDF), nil
	case certificate.StrategyRemote:
		if remote == nil {
			return nil, fmt.Errorf("certificate strategy %q needs a registry API", strategy)
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown certificate strategy %q", strategy)
	}
}
