package leave

// SubmitLeaveRequest is validated by the service so every failure names its
// field.
type SubmitLeaveRequest struct {
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	HalfDay       bool   `json:"half_day"`
	HalfDayPeriod string `json:"half_day_period"`
	Reason        string `json:"reason"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type ListFilter struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
}

type EmployeeSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type PersonSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type LeaveResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	LeaveType       string           `json:"leave_type"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	HalfDay         bool             `json:"half_day"`
	HalfDayPeriod   *string          `json:"half_day_period"`
	DaysCount       float64          `json:"days_count"`
	Reason          string           `json:"reason"`
	Status          string           `json:"status"`
	DecisionBy      *string          `json:"decision_by"`
	DecisionComment *string          `json:"decision_comment"`
	DecidedAt       *string          `json:"decided_at"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
	Employee        *EmployeeSummary `json:"employee,omitempty"`
	DecisionMaker   *PersonSummary   `json:"decision_maker,omitempty"`
}

type MessageResponse struct {
	ID             int64          `json:"id"`
	LeaveRequestID string         `json:"leave_request_id"`
	SenderID       string         `json:"sender_id"`
	Message        string         `json:"message"`
	CreatedAt      string         `json:"created_at"`
	Sender         *PersonSummary `json:"sender,omitempty"`
}
