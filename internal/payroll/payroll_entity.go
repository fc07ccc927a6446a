package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

const UniqueEmployeePeriod = "uq_payslip_employee_period"

// Payslip is a published pay statement. Amounts are stored in the smallest
// currency unit; nothing here computes them.
type Payslip struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_payslip_employee_period,priority:1"`
	Year       int       `gorm:"not null;uniqueIndex:uq_payslip_employee_period,priority:2"`
	Month      int       `gorm:"not null;uniqueIndex:uq_payslip_employee_period,priority:3"`
	Amount     int64     `gorm:"type:bigint;not null;default:0"`
	Status     string    `gorm:"type:varchar(16);not null"`
	PDFURL     *string   `gorm:"column:pdf_url;type:varchar(500)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Payslip) TableName() string {
	return "payroll"
}

func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusPaid
}
