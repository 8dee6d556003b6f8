package main

import (
	"company-registry/internal/app"
	"company-registry/internal/bootstrap"
	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/audit"
	"company-registry/internal/shared/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load[config.API]()
	if err != nil {
		panic(err)
	}
	logger, err := bootstrap.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()
	if config.IsProduction(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	cleanup, err := app.BuildAPI(r, cfg, logger)
	if err != nil {
		logger.Fatal("build api failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(r, bootstrap.ServerConfig{Port: cfg.Port}, audit.NewZapLogger(logger))
}
