package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRecord struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	LeaveType    string    `gorm:"column:leave_type;type:varchar(20);not null"`
	StartDate    time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time `gorm:"column:end_date;type:date;not null"`
	NumberOfDays int       `gorm:"column:number_of_days;not null"`
	Reason       string    `gorm:"column:reason;type:text;not null"`

	Status       string     `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	ApprovedBy   *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovalDate *time.Time `gorm:"column:approval_date;type:timestamptz"`
	Comments     *string    `gorm:"column:comments;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	User *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (LeaveRecord) TableName() string {
	return "leaves"
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
