package attendance

type AddAttendanceRequest struct {
	UserID       string  `json:"user_id" binding:"required,uuid"`
	Date         string  `json:"date" binding:"required"`
	Status       string  `json:"status" binding:"required,oneof=PRESENT ABSENT HALF_DAY LEAVE ON_LEAVE"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Remarks      *string `json:"remarks"`
}

type UpdateAttendanceRequest struct {
	Status       *string `json:"status" binding:"omitempty,oneof=PRESENT ABSENT HALF_DAY LEAVE ON_LEAVE"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Remarks      *string `json:"remarks"`
}

type ListFilter struct {
	UserID    string
	StartDate string
	EndDate   string
	Status    string
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Status       string  `json:"status"`
	WorkingHours float64 `json:"working_hours"`
	Remarks      *string `json:"remarks,omitempty"`
}

type ReportResponse struct {
	TotalRecords      int     `json:"total_records"`
	PresentDays       int     `json:"present_days"`
	AbsentDays        int     `json:"absent_days"`
	HalfDays          int     `json:"half_days"`
	LeaveDays         int     `json:"leave_days"`
	TotalWorkingHours float64 `json:"total_working_hours"`
}
