package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attendance struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendances_user_date"`
	Date   time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendances_user_date;index"`

	CheckInTime  *time.Time `gorm:"column:check_in_time;type:timestamptz"`
	CheckOutTime *time.Time `gorm:"column:check_out_time;type:timestamptz"`

	Status       string  `gorm:"column:status;type:varchar(20);not null;default:'ABSENT'"`
	WorkingHours float64 `gorm:"column:working_hours;not null;default:0"`
	Remarks      *string `gorm:"column:remarks;type:text"`

	RecordedBy *uuid.UUID `gorm:"column:recorded_by;type:uuid"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	User *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
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
