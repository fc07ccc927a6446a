package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-staffhub/internal/employee"
	payrollerrors "go-staffhub/internal/payroll/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Directory interface {
	Lookup(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

// Gate decides whether a role may read other employees' payslips.
type Gate interface {
	Allowed(role, resource, action string) bool
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, viewer contextutil.Actor, employeeID string) ([]PayslipResponse, error)
	Get(ctx context.Context, viewer contextutil.Actor, id string) (PayslipResponse, error)
	Document(ctx context.Context, viewer contextutil.Actor, id string) (PayslipDocument, error)
	Import(ctx context.Context, req ImportPayslipRequest) (PayslipResponse, error)
}

type service struct {
	repo      Repository
	directory Directory
	gate      Gate
	logger    *zap.Logger
}

func NewService(repo Repository, directory Directory, gate Gate, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{repo: repo, directory: directory, gate: gate, logger: l}
}

func (s *service) canSee(viewer contextutil.Actor, employeeID string) bool {
	if employeeID == viewer.EmployeeID {
		return true
	}
	return s.gate != nil && s.gate.Allowed(viewer.Role, "payslip", "read_all")
}

// List defaults to the viewer's own payslips.
func (s *service) List(ctx context.Context, viewer contextutil.Actor, employeeID string) ([]PayslipResponse, error) {
	if _, err := uuid.Parse(viewer.EmployeeID); err != nil {
		return nil, payrollerrors.ErrNotAuthenticated
	}
	if employeeID == "" {
		employeeID = viewer.EmployeeID
	}
	if !s.canSee(viewer, employeeID) {
		return nil, payrollerrors.ErrViewOthersForbidden
	}

	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list payslips failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, apperror.FromStore(err)
	}

	resp := make([]PayslipResponse, len(rows))
	for i, p := range rows {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) find(ctx context.Context, viewer contextutil.Actor, id string) (*Payslip, error) {
	if _, err := uuid.Parse(viewer.EmployeeID); err != nil {
		return nil, payrollerrors.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayslipNotFound
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, apperror.FromStore(err)
	}
	// someone else's payslip is reported as missing
	if !s.canSee(viewer, p.EmployeeID.String()) {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, viewer contextutil.Actor, id string) (PayslipResponse, error) {
	p, err := s.find(ctx, viewer, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Document(ctx context.Context, viewer contextutil.Actor, id string) (PayslipDocument, error) {
	p, err := s.find(ctx, viewer, id)
	if err != nil {
		return PayslipDocument{}, err
	}
	if p.PDFURL != nil && *p.PDFURL != "" {
		return PayslipDocument{RedirectURL: *p.PDFURL}, nil
	}

	name := ""
	if s.directory != nil {
		if e, err := s.directory.Lookup(ctx, p.EmployeeID.String()); err == nil {
			name = e.FullName
		}
	}
	return PayslipDocument{
		PDF:      renderPayslipPDF(payslipLines(*p, name)),
		Filename: fmt.Sprintf("payslip-%04d-%02d.pdf", p.Year, p.Month),
	}, nil
}

func (s *service) Import(ctx context.Context, req ImportPayslipRequest) (PayslipResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, apperror.InvalidField("employee_id")
	}
	first, _, err := clock.ParseMonth(req.Period)
	if err != nil {
		return PayslipResponse{}, apperror.Validation("period", "must be YYYY-MM")
	}
	if req.Amount < 0 {
		return PayslipResponse{}, apperror.Validation("amount", "must not be negative")
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !IsValidStatus(status) {
		return PayslipResponse{}, apperror.Validation("status", "must be pending or paid")
	}

	p := &Payslip{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Year:       first.Year(),
		Month:      int(first.Month()),
		Amount:     req.Amount,
		Status:     status,
	}
	if url := strings.TrimSpace(req.PDFURL); url != "" {
		p.PDFURL = &url
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if apperror.IsUniqueViolation(err, UniqueEmployeePeriod) {
			return PayslipResponse{}, payrollerrors.ErrPayslipExists
		}
		s.logger.Error("import payslip failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayslipResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("payslip imported",
		zap.String("payslip_id", p.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", req.Period),
	)
	return mapToResponse(*p), nil
}
