package attendance

type CheckInRequest struct {
	// Status is stored as given; empty means Present.
	Status string `json:"status"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	CheckIn        string  `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type PresentCountResponse struct {
	EmployeeID       string `json:"employee_id"`
	Month            string `json:"month"`
	Present          int64  `json:"present"`
	TotalDaysInMonth int    `json:"total_days_in_month"`
}
