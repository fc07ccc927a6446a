package notification

import (
	"context"
	"time"

	"go-staffhub/internal/shared/scope"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit, offset int) ([]Notification, int64, error)
	// MarkRead stamps read_at on an unread notification owned by employeeID.
	MarkRead(ctx context.Context, id, employeeID string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit, offset int) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&Notification{}).Scopes(scope.OwnedBy(employeeID))
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Notification
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) MarkRead(ctx context.Context, id, employeeID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(scope.OwnedBy(employeeID)).
		Where("id = ?", id).
		Where("read_at IS NULL").
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
