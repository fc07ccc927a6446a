package leave

import (
	"strings"
	"time"
	"unicode/utf8"

	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
)

type submission struct {
	start, end time.Time
	period     *string
	days       float64
	reason     string
}

// validateSubmit checks a submission field by field in a fixed order and
// returns the normalised dates and day count.
func validateSubmit(req SubmitLeaveRequest) (submission, error) {
	var v submission

	if strings.TrimSpace(req.StartDate) == "" {
		return v, apperror.RequiredField("start_date")
	}
	start, err := clock.ParseDate(req.StartDate)
	if err != nil {
		return v, apperror.Validation("start_date", "must be YYYY-MM-DD")
	}

	end := start
	if !req.HalfDay {
		if strings.TrimSpace(req.EndDate) == "" {
			return v, apperror.RequiredField("end_date")
		}
		end, err = clock.ParseDate(req.EndDate)
		if err != nil {
			return v, apperror.Validation("end_date", "must be YYYY-MM-DD")
		}
	}

	if !IsValidLeaveType(req.LeaveType) {
		return v, apperror.Validation("leave_type", "must be one of Paid, Sick, Casual, Unpaid, WFH, Other")
	}

	if req.HalfDay {
		switch req.HalfDayPeriod {
		case PeriodMorning, PeriodAfternoon:
			p := req.HalfDayPeriod
			v.period = &p
		case "":
			return v, apperror.RequiredField("half_day_period")
		default:
			return v, apperror.Validation("half_day_period", "must be morning or afternoon")
		}
		v.days = 0.5
	} else {
		if req.HalfDayPeriod != "" {
			return v, apperror.Validation("half_day_period", "only allowed for half-day requests")
		}
		if end.Before(start) {
			return v, apperror.Validation("end_date", "must not be before start_date")
		}
		v.days = float64(clock.InclusiveDays(start, end))
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) < minReasonLength {
		return v, apperror.Validation("reason", "must be at least 10 characters")
	}

	v.start, v.end, v.reason = start, end, reason
	return v, nil
}
