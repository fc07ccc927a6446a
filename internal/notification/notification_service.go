package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-staffhub/internal/events"
	notificationerrors "go-staffhub/internal/notification/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPageSize = 20

type Service interface {
	// CreateFromEvent stores the in-app notification an event implies. It
	// reports false when the event has no recipient or was already consumed.
	CreateFromEvent(ctx context.Context, ev events.LeaveEvent) (bool, error)
	List(ctx context.Context, employeeID string, filter ListFilter) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, employeeID, id string) (NotificationResponse, error)
}

type service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{repo: repo, clock: clk, logger: l}
}

func (s *service) CreateFromEvent(ctx context.Context, ev events.LeaveEvent) (bool, error) {
	recipient, kind, ok := recipientFor(ev)
	if !ok {
		return false, nil
	}
	recipientID, err := uuid.Parse(recipient)
	if err != nil {
		s.logger.Warn("event recipient is not an employee id, skipping",
			zap.String("event_id", ev.EventID),
			zap.String("recipient", recipient),
		)
		return false, nil
	}

	title, body := render(ev)
	n := &Notification{
		ID:            uuid.New(),
		EmployeeID:    recipientID,
		Kind:          kind,
		Title:         title,
		Body:          body,
		SourceEventID: ev.EventID,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		if apperror.IsUniqueViolation(err, UniqueSourceEvent) {
			s.logger.Info("notification already created for event",
				zap.String("event_id", ev.EventID),
			)
			return false, nil
		}
		return false, apperror.FromStore(err)
	}

	s.logger.Info("notification created",
		zap.String("event_id", ev.EventID),
		zap.String("event_type", ev.EventType),
		zap.String("employee_id", recipient),
	)
	return true, nil
}

// recipientFor picks the employee an event concerns. Nobody is notified
// about their own action.
func recipientFor(ev events.LeaveEvent) (string, string, bool) {
	var recipient, kind string
	switch ev.EventType {
	case events.LeaveDecided:
		recipient, kind = ev.RequesterID, KindLeaveDecided
	case events.LeaveCancelled:
		recipient, kind = ev.RequesterID, KindLeaveCancelled
	case events.LeaveStatusChanged:
		recipient, kind = ev.RequesterID, KindLeaveStatusChanged
	case events.LeaveMessagePosted:
		kind = KindLeaveMessage
		if ev.ActorID == ev.RequesterID {
			recipient = ev.DecisionBy
		} else {
			recipient = ev.RequesterID
		}
	default:
		return "", "", false
	}
	if recipient == "" || recipient == ev.ActorID {
		return "", "", false
	}
	return recipient, kind, true
}

func render(ev events.LeaveEvent) (string, string) {
	period := fmt.Sprintf("%s leave %s to %s", ev.LeaveType, ev.StartDate, ev.EndDate)
	switch ev.EventType {
	case events.LeaveDecided:
		body := fmt.Sprintf("Your %s was %s.", period, humanize(ev.Status))
		if ev.Comment != "" {
			body += " Comment: " + ev.Comment
		}
		return "Leave request " + humanize(ev.Status), body
	case events.LeaveCancelled:
		return "Leave request cancelled", fmt.Sprintf("Your %s was cancelled.", period)
	case events.LeaveStatusChanged:
		return "Leave request " + humanize(ev.Status),
			fmt.Sprintf("Your %s is now %s.", period, humanize(ev.Status))
	default:
		return "New message on leave request", ev.Message
	}
}

func humanize(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

func (s *service) List(ctx context.Context, employeeID string, filter ListFilter) ([]NotificationResponse, int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, notificationerrors.ErrNotAuthenticated
	}

	page, size := response.NormalizePage(filter.Page, filter.PageSize, defaultPageSize)

	rows, total, err := s.repo.ListByEmployee(ctx, employeeID, filter.UnreadOnly, size, response.Offset(page, size))
	if err != nil {
		return nil, 0, apperror.FromStore(err)
	}

	resp := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = mapToResponse(n)
	}
	return resp, total, nil
}

// MarkRead is idempotent. Another employee's notification reads as not found.
func (s *service) MarkRead(ctx context.Context, employeeID, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return NotificationResponse{}, notificationerrors.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
	}

	if _, err := s.repo.MarkRead(ctx, id, employeeID, s.clock.Now().UTC()); err != nil {
		return NotificationResponse{}, apperror.FromStore(err)
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, apperror.FromStore(err)
	}
	if n.EmployeeID.String() != employeeID {
		return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
	}
	return mapToResponse(*n), nil
}
