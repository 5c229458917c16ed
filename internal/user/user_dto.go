package user

type UpdateUserRequest struct {
	FirstName   *string  `json:"first_name"`
	LastName    *string  `json:"last_name"`
	Phone       *string  `json:"phone"`
	Department  *string  `json:"department"`
	Designation *string  `json:"designation"`
	JoiningDate *string  `json:"joining_date"`
	Role        *string  `json:"role" binding:"omitempty,oneof=ADMIN HR EMPLOYEE"`
	BaseSalary  *float64 `json:"base_salary"`
	Allowances  *float64 `json:"allowances"`
	Deductions  *float64 `json:"deductions"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type AddDocumentRequest struct {
	DocumentName string `json:"document_name" binding:"required"`
	DocumentURL  string `json:"document_url" binding:"required,url"`
}

type SalaryStructureResponse struct {
	BaseSalary float64 `json:"base_salary"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
}

type LeaveBalanceResponse struct {
	PaidLeave   int `json:"paid_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
}

type DocumentResponse struct {
	ID           string `json:"id"`
	DocumentName string `json:"document_name"`
	DocumentURL  string `json:"document_url"`
	UploadedAt   string `json:"uploaded_at"`
}

type UserResponse struct {
	ID              string                  `json:"id"`
	EmployeeID      string                  `json:"employee_id"`
	FirstName       string                  `json:"first_name"`
	LastName        string                  `json:"last_name"`
	Email           string                  `json:"email"`
	Phone           *string                 `json:"phone,omitempty"`
	Role            string                  `json:"role"`
	Department      *string                 `json:"department,omitempty"`
	Designation     *string                 `json:"designation,omitempty"`
	JoiningDate     *string                 `json:"joining_date,omitempty"`
	SalaryStructure SalaryStructureResponse `json:"salary_structure"`
	LeaveBalance    LeaveBalanceResponse    `json:"leave_balance"`
	IsActive        bool                    `json:"is_active"`
	Documents       []DocumentResponse      `json:"documents,omitempty"`
}
