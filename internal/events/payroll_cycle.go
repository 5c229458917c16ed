package events

import "time"

const TopicPayrollCycle = "hr.payroll.cycle.v1"

// Payroll cycle actions.
const (
	PayrollGenerated = "GENERATED"
	PayrollApproved  = "APPROVED"
	PayrollPaid      = "PAID"
)

// PayrollCycle is emitted at each stage of a payroll record's lifecycle.
type PayrollCycle struct {
	PayrollID  string    `json:"payroll_id"`
	UserID     string    `json:"user_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Action     string    `json:"action"`
	NetSalary  float64   `json:"net_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}
