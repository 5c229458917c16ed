package leave

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Balance struct {
	PaidLeave   int
	SickLeave   int
	UnpaidLeave int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRecord) error
	FindByID(ctx context.Context, id string) (*LeaveRecord, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRecord, error)
	UpdateStatusFrom(ctx context.Context, l *LeaveRecord, fromStatus string) (int64, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	GetBalance(ctx context.Context, userID string) (Balance, error)
	AdjustBalance(ctx context.Context, userID, column string, delta int, enforceFloor bool) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRecord) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRecord, error) {
	var l LeaveRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRecord, error) {
	db := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.StartDate != "" {
		db = db.Where("start_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		db = db.Where("end_date <= ?", filter.EndDate)
	}

	var records []LeaveRecord
	err := db.Order("created_at DESC").Find(&records).Error
	return records, err
}

// UpdateStatusFrom persists the decision fields only when the row still
// holds fromStatus, so two racing decisions cannot both win.
func (r *repository) UpdateStatusFrom(ctx context.Context, l *LeaveRecord, fromStatus string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRecord{}).
		Where("id = ? AND status = ?", l.ID, fromStatus).
		Updates(map[string]interface{}{
			"status":        l.Status,
			"approved_by":   l.ApprovedBy,
			"approval_date": l.ApprovalDate,
			"comments":      l.Comments,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetBalance(ctx context.Context, userID string) (Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Table("users").
		Select("paid_leave, sick_leave, unpaid_leave").
		Where("id = ? AND deleted_at IS NULL", userID).
		Take(&b).Error
	return b, err
}

// AdjustBalance is the only place a leave balance changes. With
// enforceFloor set, a negative delta refuses to drive the column below
// zero and reports zero rows; the unpaid tally skips the floor.
func (r *repository) AdjustBalance(ctx context.Context, userID, column string, delta int, enforceFloor bool) (int64, error) {
	db := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", userID)
	if enforceFloor && delta < 0 {
		db = db.Where(column+" >= ?", -delta)
	}

	res := db.UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	return res.RowsAffected, res.Error
}
