package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-staffhub/internal/config"
	"go-staffhub/internal/employee"
	"go-staffhub/internal/events"
	"go-staffhub/internal/messaging/kafka/consumer"
	"go-staffhub/internal/notification"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/pkg/telegram"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer turns hr.leave.* events into notifications and HR chat
// pushes until a shutdown signal.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	infra, err := ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	clk := clock.System(cfg.Location)
	notificationService := notification.NewService(notification.NewRepository(infra.GormDB), clk, logger)
	directory := employee.NewService(infra.SQLDB, employee.NewRepository(infra.GormDB), nil, 0, logger)

	var pusher *telegram.Pusher
	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(cfg.Telegram.BotToken)
		if err != nil {
			return err
		}
		pusher = telegram.NewPusher(bot, cfg.Telegram.HRChatID, logger)
		logger.Info("telegram push enabled", zap.String("bot", bot.Self.UserName))
	} else {
		logger.Info("telegram push disabled")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		GroupID:        cfg.Kafka.ConsumerGroup,
		GroupTopics:    []string{events.LeaveLifecycleTopic, events.LeaveMessagesTopic},
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := consumer.LeaveEventHandler{
		Notifications: notificationService,
		Directory:     directory,
	}
	if pusher != nil {
		handler.Pusher = pusher
	}
	consumer.ConsumeLeaveEvents(ctx, reader, handler, logger)

	logger.Info("consumer shutting down")
	return nil
}
