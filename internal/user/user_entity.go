package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID string    `gorm:"column:employee_id;type:varchar(20);not null;uniqueIndex"`
	FirstName  string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName   string    `gorm:"column:last_name;type:varchar(100);not null"`
	Email      string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password   string    `gorm:"column:password;type:text;not null"`
	Phone      *string   `gorm:"column:phone;type:varchar(30)"`
	Role       string    `gorm:"column:role;type:varchar(20);not null;default:'EMPLOYEE'"`

	Department  *string    `gorm:"column:department;type:varchar(100)"`
	Designation *string    `gorm:"column:designation;type:varchar(100)"`
	JoiningDate *time.Time `gorm:"column:joining_date;type:date"`

	// Salary structure, the payroll workflow reads these as the current values
	BaseSalary float64 `gorm:"column:base_salary;not null;default:0"`
	Allowances float64 `gorm:"column:allowances;not null;default:0"`
	Deductions float64 `gorm:"column:deductions;not null;default:0"`

	// Leave balance in days, mutated only by the leave workflow
	PaidLeave   int `gorm:"column:paid_leave;not null;default:12"`
	SickLeave   int `gorm:"column:sick_leave;not null;default:5"`
	UnpaidLeave int `gorm:"column:unpaid_leave;not null;default:0"`

	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Documents []Document `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

type Document struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	DocumentName string    `gorm:"column:document_name;type:varchar(255);not null"`
	DocumentURL  string    `gorm:"column:document_url;type:text;not null"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

func (Document) TableName() string {
	return "user_documents"
}
