package payroll

import "fmt"

type ImportPayslipRequest struct {
	EmployeeID string
	Period     string // YYYY-MM
	Amount     int64
	Status     string
	PDFURL     string
}

type PayslipResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Period     string  `json:"period"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Amount     int64   `json:"amount"`
	Status     string  `json:"status"`
	PDFURL     *string `json:"pdf_url"`
}

// PayslipDocument is either a stored document to redirect to or a rendered PDF.
type PayslipDocument struct {
	RedirectURL string
	PDF         []byte
	Filename    string
}

func mapToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Period:     fmt.Sprintf("%04d-%02d", p.Year, p.Month),
		Year:       p.Year,
		Month:      p.Month,
		Amount:     p.Amount,
		Status:     p.Status,
		PDFURL:     p.PDFURL,
	}
}
