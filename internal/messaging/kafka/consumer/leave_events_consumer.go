package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-staffhub/internal/employee"
	"go-staffhub/internal/events"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type NotificationCreator interface {
	CreateFromEvent(ctx context.Context, ev events.LeaveEvent) (bool, error)
}

type SubmissionPusher interface {
	PushLeaveSubmitted(ctx context.Context, ev events.LeaveEvent, requesterName string) error
}

type NameLookup interface {
	Lookup(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

type LeaveEventHandler struct {
	Notifications NotificationCreator
	Pusher        SubmissionPusher
	Directory     NameLookup
}

func ConsumeLeaveEvents(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_events")
	log.Info("leave events consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave events consumer stopped")
				return
			}
			log.Error("fetch leave event message failed", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, handler, log) {
			log.Info("leave events consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave event message failed", zap.Error(err))
		}
	}
}

var (
	retryBackoff    = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// handleWithRetry keeps handling msg until it succeeds, doubling the wait
// between attempts. Later messages are not fetched meanwhile, so a commit
// never moves past an unhandled offset. It returns false once ctx is done.
func handleWithRetry(ctx context.Context, msg kafkago.Message, handler LeaveEventHandler, log *zap.Logger) bool {
	wait := retryBackoff
	for attempt := 1; ; attempt++ {
		err := handler.Handle(ctx, msg, log)
		if err == nil {
			return true
		}
		log.Error("handle leave event failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		wait = min(wait*2, maxRetryBackoff)
	}
}

// Handle processes one message. Only store outages are returned; malformed
// payloads and chat push failures are logged and treated as done.
func (h LeaveEventHandler) Handle(ctx context.Context, msg kafkago.Message, log *zap.Logger) error {
	var ev events.LeaveEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.Error("decode leave event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if ev.EventID == "" {
		log.Warn("leave event without event_id, skipping", zap.String("event_type", ev.EventType))
		return nil
	}

	ctx = contextutil.WithRequestID(ctx, headerValue(msg, "request_id"))

	if ev.EventType == events.LeaveSubmitted {
		h.push(ctx, ev, log)
		return nil
	}

	if h.Notifications == nil {
		return nil
	}
	created, err := h.Notifications.CreateFromEvent(ctx, ev)
	if err != nil {
		if apperror.IsStoreUnavailable(err) || errors.Is(err, apperror.ErrStoreUnavailable) {
			return fmt.Errorf("create notification for %s: %w", ev.EventID, err)
		}
		log.Error("create notification failed, dropping event",
			zap.String("event_id", ev.EventID),
			zap.Error(err),
		)
		return nil
	}
	if created {
		log.Info("notification created from leave event",
			zap.String("event_id", ev.EventID),
			zap.String("event_type", ev.EventType),
		)
	}
	return nil
}

func (h LeaveEventHandler) push(ctx context.Context, ev events.LeaveEvent, log *zap.Logger) {
	if h.Pusher == nil {
		return
	}
	name := ""
	if h.Directory != nil {
		if e, err := h.Directory.Lookup(ctx, ev.RequesterID); err == nil {
			name = e.FullName
		}
	}
	if err := h.Pusher.PushLeaveSubmitted(ctx, ev, name); err != nil {
		log.Warn("push leave submission to hr chat failed",
			zap.String("event_id", ev.EventID),
			zap.Error(err),
		)
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
