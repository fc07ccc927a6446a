package telegram

import (
	"context"
	"fmt"
	"strings"

	"go-staffhub/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the pusher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// Pusher posts leave activity into the HR group chat. A nil *Pusher is a
// valid, silent pusher.
type Pusher struct {
	sender Sender
	chatID int64
	logger *zap.Logger
}

func NewPusher(sender Sender, chatID int64, logger ...*zap.Logger) *Pusher {
	l := zap.L().Named("telegram.pusher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.pusher")
	}
	return &Pusher{sender: sender, chatID: chatID, logger: l}
}

func (p *Pusher) PushLeaveSubmitted(ctx context.Context, ev events.LeaveEvent, requesterName string) error {
	if p == nil || p.sender == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(p.chatID, FormatLeaveSubmitted(ev, requesterName))
	msg.DisableWebPagePreview = true
	if _, err := p.sender.Send(msg); err != nil {
		p.logger.Warn("telegram push failed",
			zap.String("event_id", ev.EventID),
			zap.Int64("chat_id", p.chatID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func FormatLeaveSubmitted(ev events.LeaveEvent, requesterName string) string {
	if requesterName == "" {
		requesterName = ev.RequesterID
	}

	var b strings.Builder
	b.WriteString("New leave request\n")
	fmt.Fprintf(&b, "Employee: %s\n", requesterName)
	fmt.Fprintf(&b, "Type: %s\n", ev.LeaveType)
	if ev.StartDate == ev.EndDate {
		fmt.Fprintf(&b, "Date: %s\n", ev.StartDate)
	} else {
		fmt.Fprintf(&b, "Dates: %s to %s\n", ev.StartDate, ev.EndDate)
	}
	fmt.Fprintf(&b, "Days: %.1f\n", ev.DaysCount)
	fmt.Fprintf(&b, "Request: %s", ev.LeaveRequestID)
	return b.String()
}
