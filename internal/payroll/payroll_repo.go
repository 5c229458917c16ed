package payroll

import (
	"context"
	"database/sql"
	"errors"

	payrollerrors "go-hrms/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type SalaryStructure struct {
	BaseSalary float64
	Allowances float64
	Deductions float64
}

type AttendanceCounts struct {
	PresentDays int
	AbsentDays  int
	HalfDays    int
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByUserAndPeriod(ctx context.Context, userID string, month, year int) (*Payroll, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Payroll, error)
	Update(ctx context.Context, p *Payroll) error
	UpdateStatusFrom(ctx context.Context, p *Payroll, fromStatus string) (int64, error)
	Delete(ctx context.Context, id string) error
	UserExists(ctx context.Context, userID string) (bool, error)
	GetSalaryStructure(ctx context.Context, userID string) (SalaryStructure, error)
	CountAttendance(ctx context.Context, userID string, month, year int) (AttendanceCounts, error)
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

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if isUniquePeriodViolation(err) {
		return payrollerrors.ErrDuplicatePayroll
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByUserAndPeriod(ctx context.Context, userID string, month, year int) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&p).Error
	return &p, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payroll, error) {
	db := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Month != 0 {
		db = db.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var records []Payroll
	err := db.Order("year DESC, month DESC").Find(&records).Error
	return records, err
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateStatusFrom persists the transition only when the row still holds
// fromStatus, so two racing decisions cannot both win.
func (r *repository) UpdateStatusFrom(ctx context.Context, p *Payroll, fromStatus string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status = ?", p.ID, fromStatus).
		Updates(map[string]interface{}{
			"status":         p.Status,
			"payment_date":   p.PaymentDate,
			"payment_method": p.PaymentMethod,
			"bank_details":   p.BankDetails,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Payroll{}, "id = ?", id).Error
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetSalaryStructure(ctx context.Context, userID string) (SalaryStructure, error) {
	var s SalaryStructure
	err := r.db.WithContext(ctx).
		Table("users").
		Select("base_salary, allowances, deductions").
		Where("id = ? AND deleted_at IS NULL", userID).
		Take(&s).Error
	return s, err
}

func (r *repository) CountAttendance(ctx context.Context, userID string, month, year int) (AttendanceCounts, error) {
	var c AttendanceCounts
	err := r.db.WithContext(ctx).
		Table("attendances").
		Select(`
			COUNT(*) FILTER (WHERE status = 'PRESENT') AS present_days,
			COUNT(*) FILTER (WHERE status = 'ABSENT') AS absent_days,
			COUNT(*) FILTER (WHERE status = 'HALF_DAY') AS half_days`).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Where("EXTRACT(MONTH FROM date) = ? AND EXTRACT(YEAR FROM date) = ?", month, year).
		Take(&c).Error
	return c, err
}

func isUniquePeriodViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_payrolls_user_period"
	}
	return false
}
