package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the directory record behind an authenticated user. Ids are
// stored as char(36) so the same schema runs on postgres, mysql and sqlite.
type Employee struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_employee_user"`
	FullName  string    `gorm:"size:150;not null"`
	Email     string    `gorm:"size:150;not null;uniqueIndex:uq_employee_email"`
	Role      string    `gorm:"size:20;not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}
