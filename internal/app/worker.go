package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-staffhub/internal/config"
	"go-staffhub/internal/messaging/kafka"
	"go-staffhub/internal/messaging/kafka/producer"
	"go-staffhub/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker relays pending outbox rows to Kafka until a shutdown signal.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	infra, err := ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(infra.GormDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, outboxPollInterval)

	logger.Info("worker shutting down")
	return nil
}
