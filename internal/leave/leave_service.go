package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
	GetBalance(ctx context.Context, actorID, actorRole, userID string) (BalanceResponse, error)
	GetMy(ctx context.Context, userID string, filter ListFilter) ([]LeaveResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l, now: time.Now}
}

// countDays is inclusive of both endpoints: a single-day leave is 1 day.
func countDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *service) Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	days := countDays(start, end)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.UserExists(ctx, userID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrUserNotFound
	}

	// Balance is only verified here, never consumed. The decrement
	// happens on approval so that competing pending requests cannot
	// double-spend days.
	if sufficiencyChecked[req.LeaveType] {
		balance, err := qtx.GetBalance(ctx, userID)
		if err != nil {
			return LeaveResponse{}, err
		}
		available := balance.PaidLeave
		if req.LeaveType == TypeSick {
			available = balance.SickLeave
		}
		if available < days {
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	record := &LeaveRecord{
		ID:           uuid.New(),
		UserID:       uid,
		LeaveType:    req.LeaveType,
		StartDate:    start,
		EndDate:      end,
		NumberOfDays: days,
		Reason:       req.Reason,
		Status:       StatusPending,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("apply leave persist failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave applied",
		zap.String("leave_id", record.ID.String()),
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("number_of_days", days),
	)
	return mapToResponse(*record), nil
}

func (s *service) Approve(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(record.Status, StatusApproved) {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// Approval consumes the tracked balance. PAID and SICK are floor
	// guarded; the unpaid tally runs negative as days are taken.
	if col, tracked := trackedColumn(record.LeaveType); tracked {
		rows, err := qtx.AdjustBalance(ctx, record.UserID.String(), col,
			-record.NumberOfDays, sufficiencyChecked[record.LeaveType])
		if err != nil {
			return LeaveResponse{}, err
		}
		if rows == 0 {
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	prior := record.Status
	now := s.now().UTC()
	record.Status = StatusApproved
	record.ApprovedBy = &approver
	record.ApprovalDate = &now
	if req.Comments != nil {
		record.Comments = req.Comments
	}

	rows, err := qtx.UpdateStatusFrom(ctx, record, prior)
	if err != nil {
		return LeaveResponse{}, err
	}
	if rows == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}
	if err := s.emitDecision(ctx, qtx, record, approverID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("leave_id", id),
		zap.String("approved_by", approverID),
	)
	return mapToResponse(*record), nil
}

func (s *service) Reject(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(record.Status, StatusRejected) {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	prior := record.Status
	now := s.now().UTC()
	record.Status = StatusRejected
	record.ApprovedBy = &approver
	record.ApprovalDate = &now
	if req.Comments != nil {
		record.Comments = req.Comments
	}

	rows, err := qtx.UpdateStatusFrom(ctx, record, prior)
	if err != nil {
		return LeaveResponse{}, err
	}
	if rows == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}
	if err := s.emitDecision(ctx, qtx, record, approverID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave rejected",
		zap.String("leave_id", id),
		zap.String("rejected_by", approverID),
	)
	return mapToResponse(*record), nil
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleHR && record.UserID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotResourceOwner
	}
	if !isAllowedStatusTransition(record.Status, StatusCancelled) {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// An approved leave already consumed its balance, so cancelling it
	// refunds the exact amount the approval took.
	if record.Status == StatusApproved {
		if col, tracked := trackedColumn(record.LeaveType); tracked {
			if _, err := qtx.AdjustBalance(ctx, record.UserID.String(), col,
				record.NumberOfDays, false); err != nil {
				return LeaveResponse{}, err
			}
		}
	}

	prior := record.Status
	record.Status = StatusCancelled

	rows, err := qtx.UpdateStatusFrom(ctx, record, prior)
	if err != nil {
		return LeaveResponse{}, err
	}
	if rows == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}
	if err := s.emitDecision(ctx, qtx, record, actorID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave cancelled",
		zap.String("leave_id", id),
		zap.String("cancelled_by", actorID),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetBalance(ctx context.Context, actorID, actorRole, userID string) (BalanceResponse, error) {
	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleHR && actorID != userID {
		return BalanceResponse{}, leaveerrors.ErrNotResourceOwner
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrUserNotFound
		}
		return BalanceResponse{}, err
	}
	return BalanceResponse{
		PaidLeave:   balance.PaidLeave,
		SickLeave:   balance.SickLeave,
		UnpaidLeave: balance.UnpaidLeave,
	}, nil
}

func (s *service) GetMy(ctx context.Context, userID string, filter ListFilter) ([]LeaveResponse, error) {
	filter.UserID = userID
	return s.GetAll(ctx, filter)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, len(records))
	for i, r := range records {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleHR && record.UserID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotResourceOwner
	}
	return mapToResponse(*record), nil
}

func (s *service) findForUpdate(ctx context.Context, qtx Repository, id string) (*LeaveRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) emitDecision(ctx context.Context, qtx Repository, record *LeaveRecord, decidedBy string) error {
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"leave",
		record.ID.String(),
		"leave_decided",
		events.TopicLeaveDecided,
		events.LeaveDecided{
			LeaveID:      record.ID.String(),
			UserID:       record.UserID.String(),
			LeaveType:    record.LeaveType,
			Status:       record.Status,
			NumberOfDays: record.NumberOfDays,
			DecidedBy:    decidedBy,
			DecidedAt:    s.now().UTC(),
		},
	)
	if err != nil {
		return err
	}

	return s.outboxWithTx(qtx).Create(ctx, event)
}

// outboxWithTx reuses the repository's transaction for the outbox write
// so the event row commits atomically with the leave row.
func (s *service) outboxWithTx(qtx Repository) kafka.OutboxRepository {
	if r, ok := qtx.(*repository); ok && r.tx != nil {
		return s.outbox.WithTx(r.tx)
	}
	return s.outbox
}

func mapToResponse(l LeaveRecord) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		UserID:       l.UserID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		NumberOfDays: l.NumberOfDays,
		Reason:       l.Reason,
		Status:       l.Status,
		Comments:     l.Comments,
		AppliedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.User != nil {
		resp.EmployeeName = l.User.FirstName + " " + l.User.LastName
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovalDate != nil {
		v := l.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	return resp
}
