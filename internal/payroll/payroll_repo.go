package payroll

import (
	"context"

	"go-staffhub/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByEmployee returns the newest period first.
func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	var rows []Payslip
	err := r.db.WithContext(ctx).
		Scopes(scope.OwnedBy(employeeID)).
		Order("year DESC").
		Order("month DESC").
		Find(&rows).Error
	return rows, err
}
