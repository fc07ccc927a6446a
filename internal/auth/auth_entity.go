package auth

import (
	"time"

	"github.com/google/uuid"
)

// User holds login credentials. The employee record points back to it
// through employees.user_id.
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_email"`
	Password  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
