package leave

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=PAID SICK UNPAID CASUAL"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type DecideLeaveRequest struct {
	Comments *string `json:"comments"`
}

type ListFilter struct {
	UserID    string
	Status    string
	LeaveType string
	StartDate string
	EndDate   string
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	NumberOfDays int     `json:"number_of_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovalDate *string `json:"approval_date,omitempty"`
	Comments     *string `json:"comments,omitempty"`
	AppliedAt    string  `json:"applied_at"`
}

type BalanceResponse struct {
	PaidLeave   int `json:"paid_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
}
