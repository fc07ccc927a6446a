package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindLeaveDecided       = "leave_decided"
	KindLeaveCancelled     = "leave_cancelled"
	KindLeaveStatusChanged = "leave_status_changed"
	KindLeaveMessage       = "leave_message"
)

const UniqueSourceEvent = "uq_notification_source_event"

type Notification struct {
	ID            uuid.UUID  `gorm:"type:char(36);primaryKey"`
	EmployeeID    uuid.UUID  `gorm:"type:char(36);not null;index:idx_notification_employee_created,priority:1"`
	Kind          string     `gorm:"type:varchar(32);not null"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Body          string     `gorm:"type:text;not null"`
	SourceEventID string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_notification_source_event"`
	ReadAt        *time.Time `gorm:"default:null"`
	CreatedAt     time.Time  `gorm:"not null;index:idx_notification_employee_created,priority:2"`
}

func (Notification) TableName() string {
	return "notifications"
}
