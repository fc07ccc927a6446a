package auth

// LoginRequest is bound without binding tags: missing fields must produce the
// legacy 400 message, not a validator error.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmployeeView struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	Employee EmployeeView `json:"employee"`
}

type MeResponse struct {
	Employee EmployeeView `json:"employee"`
}

type RegisterRequest struct {
	Email    string
	Password string
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
