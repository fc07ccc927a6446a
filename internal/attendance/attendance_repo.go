package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-staffhub/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	// SetCheckOut fills check_out only while it is still empty and reports
	// how many rows changed.
	SetCheckOut(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error)
	FindRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	CountByStatus(ctx context.Context, employeeID string, start, end time.Time, status string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Scopes(scope.OwnedBy(employeeID)).
		Where("attendance_date = ?", date).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) SetCheckOut(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&Attendance{}).
		Scopes(scope.OwnedBy(employeeID)).
		Where("attendance_date = ?", date).
		Where("check_out IS NULL").
		Updates(map[string]any{
			"check_out":  checkOut,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) FindRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Scopes(scope.OwnedBy(employeeID), scope.DateRange("attendance_date", start, end)).
		Order("attendance_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatus(ctx context.Context, employeeID string, start, end time.Time, status string) (int64, error) {
	var n int64
	err := r.conn(ctx).
		Model(&Attendance{}).
		Scopes(scope.OwnedBy(employeeID), scope.DateRange("attendance_date", start, end)).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
