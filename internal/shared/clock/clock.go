// Package clock holds the time source and the date/time-of-day formats shared
// by attendance and leave.
package clock

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04:05"
	MonthLayout = "2006-01"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// System returns the wall clock expressed in loc. A nil loc means UTC.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type fixedClock struct {
	t time.Time
}

// Fixed always returns t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// DateOf returns the calendar date of t, read in t's own location, as
// midnight UTC. Stored dates always use this normalisation.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", v, err)
	}
	return t, nil
}

// ParseMonth parses YYYY-MM and returns the first and last day of that month.
func ParseMonth(v string) (time.Time, time.Time, error) {
	t, err := time.Parse(MonthLayout, v)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse month %q: %w", v, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// InclusiveDays counts calendar days from start to end, both included.
// Weekends and holidays are counted.
func InclusiveDays(start, end time.Time) int {
	start, end = DateOf(start), DateOf(end)
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// MonthDates lists every date of the month that contains first.
func MonthDates(first time.Time) []time.Time {
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	n := DaysInMonth(first.Year(), first.Month())
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}

// LoadLocation resolves an IANA zone name, falling back to UTC for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
