// Package scope holds reusable gorm query scopes.
package scope

import (
	"time"

	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows belonging to one employee.
func OwnedBy(employeeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("employee_id = ?", employeeID)
	}
}

// DateRange restricts column to the inclusive range [start, end].
func DateRange(column string, start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" <= ?", start, end)
	}
}
