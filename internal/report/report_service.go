package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-staffhub/internal/attendance"
	"go-staffhub/internal/employee"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// NoRecord marks a day without an attendance row. It is not Absent.
const NoRecord = "no_record"

const sheetName = "Attendance"

// AttendanceSource is satisfied by attendance.Repository.
type AttendanceSource interface {
	FindRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error)
}

type Directory interface {
	Lookup(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

type Service interface {
	MonthlySummary(ctx context.Context, employeeID, month string) (MonthlySummary, error)
	Calendar(ctx context.Context, employeeID, month string) (CalendarResponse, error)
	ExportMonthXLSX(ctx context.Context, employeeID, month string) ([]byte, error)
}

type service struct {
	source    AttendanceSource
	directory Directory
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(source AttendanceSource, directory Directory, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{source: source, directory: directory, clock: clk, logger: l}
}

type monthData struct {
	month  string
	first  time.Time
	byDate map[string]attendance.Attendance
}

func (s *service) load(ctx context.Context, employeeID, month string) (monthData, error) {
	if employeeID == "" {
		return monthData{}, apperror.ErrUnauthorized
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return monthData{}, apperror.InvalidField("employee_id")
	}
	if month == "" {
		month = s.clock.Now().Format(clock.MonthLayout)
	}
	first, last, err := clock.ParseMonth(month)
	if err != nil {
		return monthData{}, apperror.Validation("month", "must be YYYY-MM")
	}

	rows, err := s.source.FindRange(ctx, employeeID, first, last)
	if err != nil {
		s.logger.Error("load attendance for report failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return monthData{}, apperror.FromStore(err)
	}

	byDate := make(map[string]attendance.Attendance, len(rows))
	for _, r := range rows {
		byDate[clock.FormatDate(r.AttendanceDate)] = r
	}
	return monthData{month: month, first: first, byDate: byDate}, nil
}

func (s *service) MonthlySummary(ctx context.Context, employeeID, month string) (MonthlySummary, error) {
	data, err := s.load(ctx, employeeID, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	return summarize(employeeID, data), nil
}

func (s *service) Calendar(ctx context.Context, employeeID, month string) (CalendarResponse, error) {
	data, err := s.load(ctx, employeeID, month)
	if err != nil {
		return CalendarResponse{}, err
	}
	return CalendarResponse{
		EmployeeID: employeeID,
		Month:      data.month,
		Days:       calendarDays(data),
	}, nil
}

func (s *service) ExportMonthXLSX(ctx context.Context, employeeID, month string) ([]byte, error) {
	data, err := s.load(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}

	name := employeeID
	if s.directory != nil {
		if e, err := s.directory.Lookup(ctx, employeeID); err == nil {
			name = e.FullName
		}
	}

	buf, err := writeWorkbook(name, summarize(employeeID, data), calendarDays(data))
	if err != nil {
		s.logger.Error("build attendance workbook failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return buf, nil
}

func summarize(employeeID string, data monthData) MonthlySummary {
	sum := MonthlySummary{
		EmployeeID:       employeeID,
		Month:            data.month,
		TotalDaysInMonth: clock.DaysInMonth(data.first.Year(), data.first.Month()),
	}
	for _, r := range data.byDate {
		sum.Recorded++
		switch r.Status {
		case attendance.StatusPresent:
			sum.Present++
		case attendance.StatusLate:
			sum.Late++
		case attendance.StatusHalfDay:
			sum.HalfDay++
		case attendance.StatusAbsent:
			sum.Absent++
		}
	}
	sum.NoRecord = sum.TotalDaysInMonth - sum.Recorded
	sum.PresentIncludingLate = sum.Present + sum.Late
	return sum
}

func calendarDays(data monthData) []CalendarDay {
	dates := clock.MonthDates(data.first)
	days := make([]CalendarDay, len(dates))
	for i, d := range dates {
		key := clock.FormatDate(d)
		day := CalendarDay{Date: key, Weekday: d.Weekday().String(), Status: NoRecord}
		if r, ok := data.byDate[key]; ok {
			in := r.CheckIn
			day.Status = r.Status
			day.CheckIn = &in
			day.CheckOut = r.CheckOut
		}
		days[i] = day
	}
	return days
}

func writeWorkbook(employeeName string, sum MonthlySummary, days []CalendarDay) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := []any{"Date", "Weekday", "Status", "Check In", "Check Out"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i, d := range days {
		row := []any{d.Date, d.Weekday, d.Status, deref(d.CheckIn), deref(d.CheckOut)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	totals := [][]any{
		{"Employee", employeeName},
		{"Month", sum.Month},
		{"Present", sum.Present},
		{"Late", sum.Late},
		{"Half Day", sum.HalfDay},
		{"Absent", sum.Absent},
		{"No record", sum.NoRecord},
		{"Days in month", sum.TotalDaysInMonth},
	}
	for i, t := range totals {
		cell, err := excelize.CoordinatesToCellName(7, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &t); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", style); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", "E", 14); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
