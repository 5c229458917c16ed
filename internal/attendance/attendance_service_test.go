package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	withTxFn            func(tx *sql.Tx) attendance.Repository
	createFn            func(ctx context.Context, a *attendance.Attendance) error
	findByIDFn          func(ctx context.Context, id string) (*attendance.Attendance, error)
	findByUserAndDateFn func(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error)
	findAllFn           func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error)
	updateFn            func(ctx context.Context, a *attendance.Attendance) error
	userExistsFn        func(ctx context.Context, userID string) (bool, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByUserAndDateFn != nil {
		return f.findByUserAndDateFn(ctx, userID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	if f.userExistsFn != nil {
		return f.userExistsFn(ctx, userID)
	}
	return true, nil
}

type attendanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service attendance.Service
	repo    *fakeAttendanceRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	svc := attendance.NewService(db, repo)

	return &attendanceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			assert.Equal(t, uuid.MustParse(userID), a.UserID)
			assert.Equal(t, attendance.StatusPresent, a.Status)
			assert.NotNil(t, a.CheckInTime)
			return nil
		}

		resp, err := deps.service.CheckIn(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
		assert.NotNil(t, resp.CheckInTime)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative second check-in same day", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.New(), UserID: uuid.MustParse(userID)}, nil
		}

		_, err := deps.service.CheckIn(ctx, userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.CheckIn(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	openRecord := func(checkedInAgo time.Duration) *attendance.Attendance {
		in := time.Now().UTC().Add(-checkedInAgo)
		return &attendance.Attendance{
			ID:          uuid.New(),
			UserID:      uuid.MustParse(userID),
			Status:      attendance.StatusPresent,
			CheckInTime: &in,
		}
	}

	t.Run("success rounds to nearest half hour", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return openRecord(8*time.Hour + 20*time.Minute), nil
		}

		resp, err := deps.service.CheckOut(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 8.5, resp.WorkingHours)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
		assert.NotNil(t, resp.CheckOutTime)
	})

	t.Run("short day becomes half day", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return openRecord(2 * time.Hour), nil
		}

		resp, err := deps.service.CheckOut(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 2.0, resp.WorkingHours)
		assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	})

	t.Run("negative no check-in today", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CheckOut(ctx, userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckInToday)
	})

	t.Run("negative already checked out", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			rec := openRecord(8 * time.Hour)
			out := time.Now().UTC()
			rec.CheckOutTime = &out
			return rec, nil
		}

		_, err := deps.service.CheckOut(ctx, userID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	})
}

func TestAttendanceService_Add(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	userID := uuid.New().String()

	t.Run("success backfill with times", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		checkIn := "2026-02-02T09:00:00Z"
		checkOut := "2026-02-02T17:30:00Z"

		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			assert.Equal(t, attendance.StatusPresent, a.Status)
			assert.Equal(t, 8.5, a.WorkingHours)
			assert.NotNil(t, a.RecordedBy)
			assert.Equal(t, adminID, a.RecordedBy.String())
			return nil
		}

		resp, err := deps.service.Add(ctx, adminID, attendance.AddAttendanceRequest{
			UserID:       userID,
			Date:         "2026-02-02",
			Status:       attendance.StatusPresent,
			CheckInTime:  &checkIn,
			CheckOutTime: &checkOut,
		})

		assert.NoError(t, err)
		assert.Equal(t, 8.5, resp.WorkingHours)
	})

	t.Run("negative duplicate date", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.New()}, nil
		}

		_, err := deps.service.Add(ctx, adminID, attendance.AddAttendanceRequest{
			UserID: userID,
			Date:   "2026-02-02",
			Status: attendance.StatusAbsent,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrDuplicateRecord)
	})

	t.Run("negative check-out before check-in", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		checkIn := "2026-02-02T17:00:00Z"
		checkOut := "2026-02-02T09:00:00Z"

		_, err := deps.service.Add(ctx, adminID, attendance.AddAttendanceRequest{
			UserID:       userID,
			Date:         "2026-02-02",
			Status:       attendance.StatusPresent,
			CheckInTime:  &checkIn,
			CheckOutTime: &checkOut,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrCheckOutBeforeCheckIn)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.userExistsFn = func(ctx context.Context, uid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Add(ctx, adminID, attendance.AddAttendanceRequest{
			UserID: userID,
			Date:   "2026-02-02",
			Status: attendance.StatusAbsent,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrUserNotFound)
	})
}

func TestAttendanceService_GetByID(t *testing.T) {
	ctx := context.Background()
	recordID := uuid.New().String()
	ownerID := uuid.New()

	t.Run("negative employee reads someone else", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.MustParse(recordID), UserID: ownerID}, nil
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String(), rbac.RoleEmployee, recordID)
		assert.ErrorIs(t, err, attendanceerrors.ErrNotRecordOwner)
	})

	t.Run("hr reads anyone", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.MustParse(recordID), UserID: ownerID}, nil
		}

		resp, err := deps.service.GetByID(ctx, uuid.New().String(), rbac.RoleHR, recordID)
		assert.NoError(t, err)
		assert.Equal(t, recordID, resp.ID)
	})
}

func TestAttendanceService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("success aggregates by status", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
			return []attendance.Attendance{
				{Status: attendance.StatusPresent, WorkingHours: 8},
				{Status: attendance.StatusPresent, WorkingHours: 7.5},
				{Status: attendance.StatusHalfDay, WorkingHours: 3.5},
				{Status: attendance.StatusAbsent},
				{Status: attendance.StatusOnLeave},
			}, nil
		}

		resp, err := deps.service.Report(ctx, attendance.ListFilter{})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalRecords)
		assert.Equal(t, 2, resp.PresentDays)
		assert.Equal(t, 1, resp.HalfDays)
		assert.Equal(t, 1, resp.AbsentDays)
		assert.Equal(t, 1, resp.LeaveDays)
		assert.Equal(t, 19.0, resp.TotalWorkingHours)
	})

	t.Run("negative bad date filter", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Report(ctx, attendance.ListFilter{StartDate: "02-02-2026"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateFormat)
	})
}
