package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByUserID(ctx context.Context, userID string) (*Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]Employee, error)
	UpdateActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := r.conn(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Employee, error) {
	var e Employee
	if err := r.conn(ctx).First(&e, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Employee
	err := r.conn(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateActive(ctx context.Context, id string, active bool) error {
	return r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
