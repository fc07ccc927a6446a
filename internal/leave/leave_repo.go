package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	// Decide writes the decision only while the request is still pending.
	Decide(ctx context.Context, id, status, decidedBy string, comment *string, at time.Time) (int64, error)
	// TransitionStatus moves id from one status to another and reports how
	// many rows changed; zero means the request was not in from.
	TransitionStatus(ctx context.Context, id, from, to string, at time.Time) (int64, error)
	AddMessage(ctx context.Context, m *LeaveRequestMessage) error
	ListMessages(ctx context.Context, requestID string) ([]LeaveRequestMessage, error)
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

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.conn(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.conn(ctx).First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.conn(ctx).Model(&LeaveRequest{})
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var rows []LeaveRequest
	err := db.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Decide(ctx context.Context, id, status, decidedBy string, comment *string, at time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":           status,
			"decision_by":      decidedBy,
			"decision_comment": comment,
			"decided_at":       at,
			"updated_at":       at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) TransitionStatus(ctx context.Context, id, from, to string, at time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) AddMessage(ctx context.Context, m *LeaveRequestMessage) error {
	return r.conn(ctx).Omit("LeaveRequest").Create(m).Error
}

func (r *repository) ListMessages(ctx context.Context, requestID string) ([]LeaveRequestMessage, error) {
	var rows []LeaveRequestMessage
	err := r.conn(ctx).
		Where("leave_request_id = ?", requestID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
