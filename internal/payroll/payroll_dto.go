package payroll

type GeneratePayrollRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
}

type UpdatePayrollRequest struct {
	BaseSalary    *float64 `json:"base_salary" binding:"omitempty,gte=0"`
	Allowances    *float64 `json:"allowances" binding:"omitempty,gte=0"`
	Deductions    *float64 `json:"deductions" binding:"omitempty,gte=0"`
	TaxDeduction  *float64 `json:"tax_deduction" binding:"omitempty,gte=0"`
	ProvidentFund *float64 `json:"provident_fund" binding:"omitempty,gte=0"`
	Notes         *string  `json:"notes"`
}

type MarkPaidRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=BANK_TRANSFER CHEQUE CASH"`
	BankDetails   *string `json:"bank_details"`
}

type ListFilter struct {
	UserID string
	Month  int
	Year   int
	Status string
}

type PayrollResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`

	BaseSalary    float64 `json:"base_salary"`
	Allowances    float64 `json:"allowances"`
	Deductions    float64 `json:"deductions"`
	GrossSalary   float64 `json:"gross_salary"`
	TaxDeduction  float64 `json:"tax_deduction"`
	ProvidentFund float64 `json:"provident_fund"`
	NetSalary     float64 `json:"net_salary"`

	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	HalfDays    int `json:"half_days"`

	Status        string  `json:"status"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type ReportSummary struct {
	Month         int     `json:"month,omitempty"`
	Year          int     `json:"year,omitempty"`
	TotalRecords  int     `json:"total_records"`
	TotalGross    float64 `json:"total_gross"`
	TotalNet      float64 `json:"total_net"`
	TotalTax      float64 `json:"total_tax"`
	TotalPF       float64 `json:"total_provident_fund"`
	TotalDeducted float64 `json:"total_deductions"`
	PendingCount  int     `json:"pending_count"`
	ApprovedCount int     `json:"approved_count"`
	PaidCount     int     `json:"paid_count"`
}

type ReportResponse struct {
	Summary  ReportSummary     `json:"summary"`
	Payrolls []PayrollResponse `json:"payrolls"`
}
