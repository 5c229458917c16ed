package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	UserExists(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm session onto the caller's transaction so every
// statement issued through the returned repository joins it.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{})
	if err != nil {
		return r
	}
	return &repository{db: gdb, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&a, "date = ?", date.Format("2006-01-02")).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	db := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.StartDate != "" {
		db = db.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		db = db.Where("date <= ?", filter.EndDate)
	}

	var records []Attendance
	err := db.Order("date DESC").Find(&records).Error
	return records, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", userID).
		Count(&count).Error
	return count > 0, err
}
