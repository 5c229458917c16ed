package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusLeave   = "LEAVE"
	StatusOnLeave = "ON_LEAVE"
)

// halfDayThresholdHours marks check-outs below this as a half day.
const halfDayThresholdHours = 4.0

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)
	GetMy(ctx context.Context, userID string, filter ListFilter) ([]AttendanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (AttendanceResponse, error)
	Add(ctx context.Context, recordedBy string, req AddAttendanceRequest) (AttendanceResponse, error)
	Update(ctx context.Context, recordedBy, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Report(ctx context.Context, filter ListFilter) (ReportResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

// roundToHalfHour rounds worked hours to the nearest 30 minutes.
func roundToHalfHour(hours float64) float64 {
	return math.Round(hours*2) / 2
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) CheckIn(ctx context.Context, userID string) (AttendanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	now := s.now().UTC()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByUserAndDate(ctx, userID, today); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	record := &Attendance{
		ID:          uuid.New(),
		UserID:      uid,
		Date:        today,
		CheckInTime: &now,
		Status:      StatusPresent,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("check-in persist failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked in", zap.String("user_id", userID), zap.Time("date", today))
	return mapToResponse(*record), nil
}

func (s *service) CheckOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	now := s.now().UTC()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInToday
		}
		return AttendanceResponse{}, err
	}
	if record.CheckInTime == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoCheckInToday
	}
	if record.CheckOutTime != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	record.CheckOutTime = &now
	record.WorkingHours = roundToHalfHour(now.Sub(*record.CheckInTime).Hours())
	if record.WorkingHours < halfDayThresholdHours {
		record.Status = StatusHalfDay
	} else {
		record.Status = StatusPresent
	}

	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("check-out persist failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked out",
		zap.String("user_id", userID),
		zap.Float64("working_hours", record.WorkingHours),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetMy(ctx context.Context, userID string, filter ListFilter) ([]AttendanceResponse, error) {
	filter.UserID = userID
	return s.GetAll(ctx, filter)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	if err := validateFilterDates(filter); err != nil {
		return nil, err
	}

	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(records))
	for i, r := range records {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (AttendanceResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleHR && record.UserID.String() != actorID {
		return AttendanceResponse{}, attendanceerrors.ErrNotRecordOwner
	}
	return mapToResponse(*record), nil
}

func (s *service) Add(ctx context.Context, recordedBy string, req AddAttendanceRequest) (AttendanceResponse, error) {
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	checkIn, checkOut, err := parseTimes(req.CheckInTime, req.CheckOutTime)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.UserExists(ctx, req.UserID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !exists {
		return AttendanceResponse{}, attendanceerrors.ErrUserNotFound
	}

	if _, err := qtx.FindByUserAndDate(ctx, req.UserID, date); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrDuplicateRecord
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	recorder, err := uuid.Parse(recordedBy)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	record := &Attendance{
		ID:           uuid.New(),
		UserID:       uid,
		Date:         date,
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
		Status:       req.Status,
		Remarks:      req.Remarks,
		RecordedBy:   &recorder,
	}
	if checkIn != nil && checkOut != nil {
		record.WorkingHours = roundToHalfHour(checkOut.Sub(*checkIn).Hours())
	}

	if err := qtx.Create(ctx, record); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance added",
		zap.String("user_id", req.UserID),
		zap.String("date", req.Date),
		zap.String("recorded_by", recordedBy),
	)
	return mapToResponse(*record), nil
}

func (s *service) Update(ctx context.Context, recordedBy, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}
	checkIn, checkOut, err := parseTimes(req.CheckInTime, req.CheckOutTime)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if checkIn != nil {
		record.CheckInTime = checkIn
	}
	if checkOut != nil {
		record.CheckOutTime = checkOut
	}
	if record.CheckInTime != nil && record.CheckOutTime != nil {
		if record.CheckOutTime.Before(*record.CheckInTime) {
			return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
		}
		record.WorkingHours = roundToHalfHour(record.CheckOutTime.Sub(*record.CheckInTime).Hours())
	}

	recorder, err := uuid.Parse(recordedBy)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	record.RecordedBy = &recorder

	if err := qtx.Update(ctx, record); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance updated",
		zap.String("attendance_id", id),
		zap.String("recorded_by", recordedBy),
	)
	return mapToResponse(*record), nil
}

func (s *service) Report(ctx context.Context, filter ListFilter) (ReportResponse, error) {
	if err := validateFilterDates(filter); err != nil {
		return ReportResponse{}, err
	}

	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return ReportResponse{}, err
	}

	var report ReportResponse
	report.TotalRecords = len(records)
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			report.PresentDays++
		case StatusAbsent:
			report.AbsentDays++
		case StatusHalfDay:
			report.HalfDays++
		case StatusLeave, StatusOnLeave:
			report.LeaveDays++
		}
		report.TotalWorkingHours += r.WorkingHours
	}
	return report, nil
}

func validateFilterDates(filter ListFilter) error {
	var start, end time.Time
	var err error
	if filter.StartDate != "" {
		if start, err = time.Parse("2006-01-02", filter.StartDate); err != nil {
			return attendanceerrors.ErrInvalidDateFormat
		}
	}
	if filter.EndDate != "" {
		if end, err = time.Parse("2006-01-02", filter.EndDate); err != nil {
			return attendanceerrors.ErrInvalidDateFormat
		}
	}
	if filter.StartDate != "" && filter.EndDate != "" && end.Before(start) {
		return attendanceerrors.ErrInvalidDateFormat
	}
	return nil
}

func parseTimes(checkIn, checkOut *string) (*time.Time, *time.Time, error) {
	var in, out *time.Time
	if checkIn != nil && *checkIn != "" {
		t, err := time.Parse(time.RFC3339, *checkIn)
		if err != nil {
			return nil, nil, attendanceerrors.ErrInvalidTimeFormat
		}
		in = &t
	}
	if checkOut != nil && *checkOut != "" {
		t, err := time.Parse(time.RFC3339, *checkOut)
		if err != nil {
			return nil, nil, attendanceerrors.ErrInvalidTimeFormat
		}
		out = &t
	}
	if in != nil && out != nil && out.Before(*in) {
		return nil, nil, attendanceerrors.ErrCheckOutBeforeCheckIn
	}
	return in, out, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID.String(),
		UserID:       a.UserID.String(),
		Date:         a.Date.Format("2006-01-02"),
		Status:       a.Status,
		WorkingHours: a.WorkingHours,
		Remarks:      a.Remarks,
	}
	if a.User != nil {
		resp.EmployeeName = a.User.FirstName + " " + a.User.LastName
	}
	if a.CheckInTime != nil {
		v := a.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &v
	}
	if a.CheckOutTime != nil {
		v := a.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	return resp
}
