package main

import (
	"company-registry/internal/app"
	"company-registry/internal/bootstrap"
	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load[config.Consumer]()
	if err != nil {
		panic(err)
	}
	logger, err := bootstrap.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunConsumer(cfg, logger); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
