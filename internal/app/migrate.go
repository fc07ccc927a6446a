package app

import (
	"go-staffhub/internal/attendance"
	"go-staffhub/internal/auth"
	"go-staffhub/internal/employee"
	"go-staffhub/internal/leave"
	"go-staffhub/internal/messaging/kafka"
	"go-staffhub/internal/notification"
	"go-staffhub/internal/payroll"

	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&auth.User{},
		&employee.Employee{},
		&attendance.Attendance{},
		&leave.LeaveRequest{},
		&leave.LeaveRequestMessage{},
		&notification.Notification{},
		&payroll.Payslip{},
		&kafka.OutboxEvent{},
	}
}

// Migrate creates tables and unique indexes. It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
