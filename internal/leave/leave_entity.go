package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusNeedsInfo = "needs_info"
	StatusCancelled = "cancelled"
)

const (
	TypePaid   = "Paid"
	TypeSick   = "Sick"
	TypeCasual = "Casual"
	TypeUnpaid = "Unpaid"
	TypeWFH    = "WFH"
	TypeOther  = "Other"
)

const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

// LeaveRequest is never hard-deleted. Decision fields are written once, by
// the approve or reject transition.
type LeaveRequest struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey"`
	EmployeeID      uuid.UUID  `gorm:"type:char(36);not null;index:idx_leave_requests_employee"`
	LeaveType       string     `gorm:"type:varchar(16);not null"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	HalfDay         bool       `gorm:"not null"`
	HalfDayPeriod   *string    `gorm:"type:varchar(16)"`
	DaysCount       float64    `gorm:"type:decimal(5,1);not null"`
	Reason          string     `gorm:"type:text;not null"`
	Status          string     `gorm:"type:varchar(16);not null;index:idx_leave_requests_status"`
	DecisionBy      *uuid.UUID `gorm:"type:char(36)"`
	DecisionComment *string    `gorm:"type:text"`
	DecidedAt       *time.Time
	CreatedAt       time.Time `gorm:"index:idx_leave_requests_created"`
	UpdatedAt       time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRequestMessage is append-only. ID grows with insertion order and
// breaks ties between messages created in the same instant.
type LeaveRequestMessage struct {
	ID             int64         `gorm:"primaryKey;autoIncrement"`
	LeaveRequestID uuid.UUID     `gorm:"type:char(36);not null;index:idx_leave_messages_request"`
	LeaveRequest   *LeaveRequest `gorm:"foreignKey:LeaveRequestID;constraint:OnDelete:CASCADE"`
	SenderID       uuid.UUID     `gorm:"type:char(36);not null"`
	Message        string        `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

func (LeaveRequestMessage) TableName() string {
	return "leave_request_messages"
}

func IsValidLeaveType(t string) bool {
	switch t {
	case TypePaid, TypeSick, TypeCasual, TypeUnpaid, TypeWFH, TypeOther:
		return true
	default:
		return false
	}
}

func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected || status == StatusCancelled
}
