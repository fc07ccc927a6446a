package report

type MonthlySummary struct {
	EmployeeID       string `json:"employee_id"`
	Month            string `json:"month"`
	Present          int    `json:"present"`
	Late             int    `json:"late"`
	HalfDay          int    `json:"half_day"`
	Absent           int    `json:"absent"`
	Recorded         int    `json:"recorded"`
	NoRecord         int    `json:"no_record"`
	TotalDaysInMonth int    `json:"total_days_in_month"`
	// PresentIncludingLate is a display figure; Present stays strict.
	PresentIncludingLate int `json:"present_including_late"`
}

type CalendarDay struct {
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Status   string  `json:"status"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
}

type CalendarResponse struct {
	EmployeeID string        `json:"employee_id"`
	Month      string        `json:"month"`
	Days       []CalendarDay `json:"days"`
}
