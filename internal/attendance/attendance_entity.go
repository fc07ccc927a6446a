package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half Day"
)

// UniqueEmployeeDate is the constraint that allows a single record per
// employee per calendar day.
const UniqueEmployeeDate = "uq_attendance_employee_date"

// Attendance is one employee-day. AttendanceDate is midnight UTC of the
// business-local calendar date; CheckIn and CheckOut are HH:MM:SS.
type Attendance struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	EmployeeID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:2"`
	CheckIn        string    `gorm:"type:varchar(8);not null"`
	CheckOut       *string   `gorm:"type:varchar(8)"`
	Status         string    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Attendance) TableName() string {
	return "attendance"
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusHalfDay:
		return true
	default:
		return false
	}
}
