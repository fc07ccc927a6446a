package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-staffhub/internal/employee"
	"go-staffhub/internal/events"
	leaveerrors "go-staffhub/internal/leave/errors"
	"go-staffhub/internal/messaging/kafka"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minReasonLength = 10

// SystemActor marks transitions made from the admin CLI.
const SystemActor = "system"

// Directory resolves requester and decider identities for enrichment.
type Directory interface {
	LookupMany(ctx context.Context, ids []string) (map[string]employee.EmployeeResponse, error)
}

// Gate answers the role questions the workflow asks.
type Gate interface {
	CanDecide(role string) bool
	CanViewAllRequests(role string) bool
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor contextutil.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor contextutil.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
	List(ctx context.Context, actor contextutil.Actor, filter ListFilter) ([]LeaveResponse, error)
	Get(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
	SendMessage(ctx context.Context, actor contextutil.Actor, id, text string) (MessageResponse, error)
	ListMessages(ctx context.Context, actor contextutil.Actor, id string) ([]MessageResponse, error)
	SetNeedsInfo(ctx context.Context, id string) (LeaveResponse, error)
	Reopen(ctx context.Context, id string) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	outbox    kafka.OutboxRepository
	directory Directory
	gate      Gate
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	directory Directory,
	gate Gate,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{
		db:        db,
		repo:      repo,
		outbox:    outbox,
		directory: directory,
		gate:      gate,
		clock:     clk,
		logger:    l,
	}
}

func requireActor(actor contextutil.Actor) error {
	if _, err := uuid.Parse(actor.EmployeeID); err != nil {
		return leaveerrors.ErrNotAuthenticated
	}
	return nil
}

func (s *service) Submit(ctx context.Context, actor contextutil.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireActor(actor); err != nil {
		return LeaveResponse{}, err
	}

	v, err := validateSubmit(req)
	if err != nil {
		s.logger.Debug("submit leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.clock.Now().UTC()
	lr := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    uuid.MustParse(actor.EmployeeID),
		LeaveType:     req.LeaveType,
		StartDate:     v.start,
		EndDate:       v.end,
		HalfDay:       req.HalfDay,
		HalfDayPeriod: v.period,
		DaysCount:     v.days,
		Reason:        v.reason,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, lr); err != nil {
		s.logger.Error("submit leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}
	if err := s.emit(ctx, tx, events.LeaveSubmitted, *lr, actor.EmployeeID, nil); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", rid),
		zap.String("leave_id", lr.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Float64("days_count", lr.DaysCount),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Decide(ctx context.Context, actor contextutil.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireActor(actor); err != nil {
		return LeaveResponse{}, err
	}
	if !s.gate.CanDecide(actor.Role) {
		s.logger.Info("decide leave denied",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("role", actor.Role),
		)
		return LeaveResponse{}, leaveerrors.ErrDecideForbidden
	}
	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return LeaveResponse{}, apperror.Validation("decision", "must be approved or rejected")
	}
	var comment *string
	if c := strings.TrimSpace(req.Comment); c != "" {
		comment = &c
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lr, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	n, err := qtx.Decide(ctx, id, req.Decision, actor.EmployeeID, comment, now)
	if err != nil {
		s.logger.Error("decide leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}
	if n == 0 {
		// someone else decided between our read and write
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	decider := uuid.MustParse(actor.EmployeeID)
	lr.Status = req.Decision
	lr.DecisionBy = &decider
	lr.DecisionComment = comment
	lr.DecidedAt = &now
	lr.UpdatedAt = now

	if err := s.emit(ctx, tx, events.LeaveDecided, *lr, actor.EmployeeID, nil); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("leave request decided",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("decision", req.Decision),
		zap.String("decided_by", actor.EmployeeID),
	)
	return s.enrichOne(ctx, *lr), nil
}

func (s *service) Cancel(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireActor(actor); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lr, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.EmployeeID.String() != actor.EmployeeID {
		return LeaveResponse{}, leaveerrors.ErrCancelForbidden
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	n, err := qtx.TransitionStatus(ctx, id, StatusPending, StatusCancelled, now)
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, apperror.FromStore(err)
	}
	if n == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}
	lr.Status = StatusCancelled
	lr.UpdatedAt = now

	if err := s.emit(ctx, tx, events.LeaveCancelled, *lr, actor.EmployeeID, nil); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("leave request cancelled", zap.String("request_id", rid), zap.String("leave_id", id))
	return mapToResponse(*lr), nil
}

func (s *service) List(ctx context.Context, actor contextutil.Actor, filter ListFilter) ([]LeaveResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !s.gate.CanViewAllRequests(actor.Role) {
		filter.EmployeeID = actor.EmployeeID
	}
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, apperror.InvalidField("employee_id")
		}
	}
	switch filter.Status {
	case "", StatusPending, StatusApproved, StatusRejected, StatusNeedsInfo, StatusCancelled:
	default:
		return nil, apperror.Validation("status", "unknown leave status")
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.FromStore(err)
	}
	return s.enrich(ctx, rows), nil
}

func (s *service) Get(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	if err := requireActor(actor); err != nil {
		return LeaveResponse{}, err
	}
	lr, err := s.find(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.EmployeeID.String() != actor.EmployeeID && !s.gate.CanViewAllRequests(actor.Role) {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}
	return s.enrichOne(ctx, *lr), nil
}

func (s *service) SendMessage(ctx context.Context, actor contextutil.Actor, id, text string) (MessageResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireActor(actor); err != nil {
		return MessageResponse{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return MessageResponse{}, apperror.RequiredField("message")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MessageResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lr, err := s.find(ctx, qtx, id)
	if err != nil {
		return MessageResponse{}, err
	}
	if !s.isParticipant(actor, *lr) {
		return MessageResponse{}, leaveerrors.ErrViewForbidden
	}

	m := &LeaveRequestMessage{
		LeaveRequestID: lr.ID,
		SenderID:       uuid.MustParse(actor.EmployeeID),
		Message:        text,
		CreatedAt:      s.clock.Now().UTC(),
	}
	if err := qtx.AddMessage(ctx, m); err != nil {
		s.logger.Error("post leave message failed", zap.String("request_id", rid), zap.Error(err))
		return MessageResponse{}, apperror.FromStore(err)
	}
	err = s.emit(ctx, tx, events.LeaveMessagePosted, *lr, actor.EmployeeID, func(e *events.LeaveEvent) {
		e.MessageID = m.ID
		e.Message = m.Message
	})
	if err != nil {
		return MessageResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return MessageResponse{}, apperror.FromStore(err)
	}

	resp := mapToMessageResponse(*m)
	resp.Sender = &PersonSummary{ID: actor.EmployeeID, FullName: actor.FullName}
	return resp, nil
}

func (s *service) ListMessages(ctx context.Context, actor contextutil.Actor, id string) ([]MessageResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	lr, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !s.isParticipant(actor, *lr) {
		return nil, leaveerrors.ErrViewForbidden
	}

	rows, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(err)
	}

	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.SenderID.String())
	}
	people := s.lookup(ctx, ids)

	res := make([]MessageResponse, len(rows))
	for i, m := range rows {
		res[i] = mapToMessageResponse(m)
		if p, ok := people[m.SenderID.String()]; ok {
			res[i].Sender = &PersonSummary{ID: p.ID, FullName: p.FullName}
		}
	}
	return res, nil
}

func (s *service) SetNeedsInfo(ctx context.Context, id string) (LeaveResponse, error) {
	return s.adminTransition(ctx, id, StatusPending, StatusNeedsInfo, leaveerrors.ErrInvalidTransition)
}

func (s *service) Reopen(ctx context.Context, id string) (LeaveResponse, error) {
	return s.adminTransition(ctx, id, StatusNeedsInfo, StatusPending, leaveerrors.ErrNotNeedsInfo)
}

func (s *service) adminTransition(ctx context.Context, id, from, to string, wrongState error) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lr, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != from {
		return LeaveResponse{}, wrongState
	}

	now := s.clock.Now().UTC()
	n, err := qtx.TransitionStatus(ctx, id, from, to, now)
	if err != nil {
		return LeaveResponse{}, apperror.FromStore(err)
	}
	if n == 0 {
		return LeaveResponse{}, wrongState
	}
	lr.Status = to
	lr.UpdatedAt = now

	if err := s.emit(ctx, tx, events.LeaveStatusChanged, *lr, SystemActor, nil); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("leave request status changed",
		zap.String("leave_id", id),
		zap.String("from", from),
		zap.String("to", to),
	)
	return mapToResponse(*lr), nil
}

func (s *service) find(ctx context.Context, repo Repository, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	lr, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, apperror.FromStore(err)
	}
	return lr, nil
}

// isParticipant is true for the requester and for anyone who may decide.
func (s *service) isParticipant(actor contextutil.Actor, lr LeaveRequest) bool {
	return lr.EmployeeID.String() == actor.EmployeeID || s.gate.CanDecide(actor.Role)
}

func (s *service) emit(ctx context.Context, tx *sql.Tx, eventType string, lr LeaveRequest, actorID string, extra func(*events.LeaveEvent)) error {
	ev, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		events.AggregateLeaveRequest,
		lr.ID.String(),
		eventType,
		events.TopicFor(eventType),
		func(id string) any {
			e := newLeaveEvent(id, eventType, lr, actorID, s.clock.Now().UTC())
			if extra != nil {
				extra(&e)
			}
			return e
		},
	)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, ev); err != nil {
		s.logger.Error("write outbox event failed",
			zap.String("event_type", eventType),
			zap.String("leave_id", lr.ID.String()),
			zap.Error(err),
		)
		return apperror.FromStore(err)
	}
	return nil
}

func newLeaveEvent(id, eventType string, lr LeaveRequest, actorID string, at time.Time) events.LeaveEvent {
	e := events.LeaveEvent{
		EventID:        id,
		EventType:      eventType,
		LeaveRequestID: lr.ID.String(),
		RequesterID:    lr.EmployeeID.String(),
		ActorID:        actorID,
		Status:         lr.Status,
		LeaveType:      lr.LeaveType,
		StartDate:      clock.FormatDate(lr.StartDate),
		EndDate:        clock.FormatDate(lr.EndDate),
		DaysCount:      lr.DaysCount,
		OccurredAt:     at,
	}
	if lr.DecisionBy != nil {
		e.DecisionBy = lr.DecisionBy.String()
	}
	if lr.DecisionComment != nil {
		e.Comment = *lr.DecisionComment
	}
	return e
}

// lookup never fails the caller; without the directory responses simply
// go out without names.
func (s *service) lookup(ctx context.Context, ids []string) map[string]employee.EmployeeResponse {
	if s.directory == nil || len(ids) == 0 {
		return nil
	}
	people, err := s.directory.LookupMany(ctx, ids)
	if err != nil {
		s.logger.Warn("directory lookup for leave enrichment failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil
	}
	return people
}

func (s *service) enrich(ctx context.Context, rows []LeaveRequest) []LeaveResponse {
	ids := make([]string, 0, len(rows)*2)
	for _, lr := range rows {
		ids = append(ids, lr.EmployeeID.String())
		if lr.DecisionBy != nil {
			ids = append(ids, lr.DecisionBy.String())
		}
	}
	people := s.lookup(ctx, ids)

	res := make([]LeaveResponse, len(rows))
	for i, lr := range rows {
		res[i] = mapToResponse(lr)
		if p, ok := people[lr.EmployeeID.String()]; ok {
			res[i].Employee = &EmployeeSummary{ID: p.ID, FullName: p.FullName, Email: p.Email, Role: p.Role}
		}
		if lr.DecisionBy != nil {
			if p, ok := people[lr.DecisionBy.String()]; ok {
				res[i].DecisionMaker = &PersonSummary{ID: p.ID, FullName: p.FullName}
			}
		}
	}
	return res
}

func (s *service) enrichOne(ctx context.Context, lr LeaveRequest) LeaveResponse {
	return s.enrich(ctx, []LeaveRequest{lr})[0]
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              lr.ID.String(),
		EmployeeID:      lr.EmployeeID.String(),
		LeaveType:       lr.LeaveType,
		StartDate:       clock.FormatDate(lr.StartDate),
		EndDate:         clock.FormatDate(lr.EndDate),
		HalfDay:         lr.HalfDay,
		HalfDayPeriod:   lr.HalfDayPeriod,
		DaysCount:       lr.DaysCount,
		Reason:          lr.Reason,
		Status:          lr.Status,
		DecisionComment: lr.DecisionComment,
		CreatedAt:       lr.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       lr.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if lr.DecisionBy != nil {
		v := lr.DecisionBy.String()
		resp.DecisionBy = &v
	}
	if lr.DecidedAt != nil {
		v := lr.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToMessageResponse(m LeaveRequestMessage) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		LeaveRequestID: m.LeaveRequestID.String(),
		SenderID:       m.SenderID.String(),
		Message:        m.Message,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
