package payroll

import (
	"time"

	"github.com/google/uuid"
)

type Payroll struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_payrolls_user_period"`
	Month  int       `gorm:"column:month;not null;uniqueIndex:idx_payrolls_user_period"`
	Year   int       `gorm:"column:year;not null;uniqueIndex:idx_payrolls_user_period"`

	BaseSalary    float64 `gorm:"column:base_salary;not null"`
	Allowances    float64 `gorm:"column:allowances;not null;default:0"`
	Deductions    float64 `gorm:"column:deductions;not null;default:0"`
	GrossSalary   float64 `gorm:"column:gross_salary;not null"`
	TaxDeduction  float64 `gorm:"column:tax_deduction;not null"`
	ProvidentFund float64 `gorm:"column:provident_fund;not null"`
	NetSalary     float64 `gorm:"column:net_salary;not null"`

	WorkingDays int `gorm:"column:working_days;not null"`
	PresentDays int `gorm:"column:present_days;not null;default:0"`
	AbsentDays  int `gorm:"column:absent_days;not null;default:0"`
	HalfDays    int `gorm:"column:half_days;not null;default:0"`

	Status        string     `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	PaymentDate   *time.Time `gorm:"column:payment_date;type:timestamptz"`
	PaymentMethod *string    `gorm:"column:payment_method;type:varchar(50)"`
	BankDetails   *string    `gorm:"column:bank_details;type:text"`
	Notes         *string    `gorm:"column:notes;type:text"`

	// Payrolls are removed outright so a deleted period can be
	// regenerated without tripping the unique index.
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	User *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Payroll) TableName() string {
	return "payrolls"
}

type UserRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"column:employee_id"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
}

func (UserRef) TableName() string {
	return "users"
}
