package main

import (
	"company-registry/internal/app"
	"company-registry/internal/bootstrap"
	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load[config.Worker]()
	if err != nil {
		panic(err)
	}
	logger, err := bootstrap.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunWorker(cfg, logger); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
