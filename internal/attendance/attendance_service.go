package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-staffhub/internal/attendance/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	ListForRange(ctx context.Context, employeeID, start, end string) ([]AttendanceResponse, error)
	CountPresentInMonth(ctx context.Context, employeeID, month string) (PresentCountResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{db: db, repo: repo, clock: clk, logger: l}
}

func requireEmployee(employeeID string) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return attendanceerrors.ErrNotAuthenticated
	}
	return nil
}

func (s *service) GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error) {
	if err := requireEmployee(employeeID); err != nil {
		return nil, err
	}

	today := clock.DateOf(s.clock.Now())
	row, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.FromStore(err)
	}
	resp := mapToResponse(*row)
	return &resp, nil
}

func (s *service) CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireEmployee(employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusPresent
	}
	if !IsValidStatus(status) {
		return AttendanceResponse{}, apperror.Validation("status", "must be one of Present, Late, Absent, Half Day")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock.Now()
	today := clock.DateOf(now)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     uuid.MustParse(employeeID),
		AttendanceDate: today,
		CheckIn:        clock.FormatTime(now),
		Status:         status,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	if err := qtx.Create(ctx, row); err != nil {
		// A concurrent check-in won the race on the unique key.
		if apperror.IsUniqueViolation(err, UniqueEmployeeDate) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in persist failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	if err := tx.Commit(); err != nil {
		if apperror.IsUniqueViolation(err, UniqueEmployeeDate) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		return AttendanceResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := requireEmployee(employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock.Now()
	today := clock.DateOf(now)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInFound
		}
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	checkOut := clock.FormatTime(now)
	if checkOut < row.CheckIn {
		checkOut = row.CheckIn
	}

	n, err := qtx.SetCheckOut(ctx, employeeID, today, checkOut, now.UTC())
	if err != nil {
		s.logger.Error("check-out persist failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, apperror.FromStore(err)
	}
	if n == 0 {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, apperror.FromStore(err)
	}

	row.CheckOut = &checkOut
	row.UpdatedAt = now.UTC()

	s.logger.Info("check-out recorded",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*row), nil
}

func (s *service) ListForRange(ctx context.Context, employeeID, start, end string) ([]AttendanceResponse, error) {
	if err := requireEmployee(employeeID); err != nil {
		return nil, err
	}
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, apperror.FromStore(err)
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) CountPresentInMonth(ctx context.Context, employeeID, month string) (PresentCountResponse, error) {
	if err := requireEmployee(employeeID); err != nil {
		return PresentCountResponse{}, err
	}
	first, last, err := clock.ParseMonth(month)
	if err != nil {
		return PresentCountResponse{}, apperror.Validation("month", "must be YYYY-MM")
	}

	n, err := s.repo.CountByStatus(ctx, employeeID, first, last, StatusPresent)
	if err != nil {
		return PresentCountResponse{}, apperror.FromStore(err)
	}
	return PresentCountResponse{
		EmployeeID:       employeeID,
		Month:            month,
		Present:          n,
		TotalDaysInMonth: clock.DaysInMonth(first.Year(), first.Month()),
	}, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	if start == "" {
		return time.Time{}, time.Time{}, apperror.RequiredField("start")
	}
	if end == "" {
		return time.Time{}, time.Time{}, apperror.RequiredField("end")
	}
	from, err := clock.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("start", "must be YYYY-MM-DD")
	}
	to, err := clock.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("end", "must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apperror.Validation("end", "must not be before start")
	}
	return from, to, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: clock.FormatDate(a.AttendanceDate),
		CheckIn:        a.CheckIn,
		CheckOut:       a.CheckOut,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
