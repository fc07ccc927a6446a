package employee

type CreateEmployeeRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin hr manager employee"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// EmployeeResponse is also the cached directory entry.
type EmployeeResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
