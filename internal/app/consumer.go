package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"company-registry/internal/company"
	"company-registry/internal/events"
	"company-registry/internal/messaging/kafka/consumer"
	"company-registry/internal/shared/config"
	"company-registry/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer keeps the lookup and certificate caches in step with the
// lifecycle topic until SIGINT or SIGTERM.
func RunConsumer(cfg config.Consumer, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	companyService := company.NewService(sqlDB, company.NewRepository(gormDB), nil, rdb, nil, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.RegistrationLifecycleTopic,
		GroupID:        cfg.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeRegistrationLifecycle(ctx, reader, companyService, companyService, logger)

	log.Info("consumer shutting down")
	return nil
}
