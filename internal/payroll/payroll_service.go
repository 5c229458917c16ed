package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
)

// Statutory rates applied to the base salary.
const (
	taxRate = 0.10
	pfRate  = 0.05
)

// Config carries payroll workflow toggles. RequireApprovedBeforePaid
// forces the PENDING -> APPROVED -> PAID path; when off a pending
// record may be paid directly.
type Config struct {
	RequireApprovedBeforePaid bool
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)
	Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	Approve(ctx context.Context, id string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayrollResponse, error)
	Report(ctx context.Context, filter ListFilter) (ReportResponse, error)
	GetMy(ctx context.Context, userID string, filter ListFilter) ([]PayrollResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]PayrollResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, cfg: cfg, logger: l, now: time.Now}
}

// workingDaysIn counts the Monday to Friday days of the given month.
func workingDaysIn(month, year int) int {
	days := 0
	d := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == time.Month(month) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days++
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// computeSalary derives the statutory charges from the base and fills the
// totals. Used at generation time only; later edits may override tax and
// provident fund, so updates go through recomputeTotals instead.
func computeSalary(p *Payroll) {
	p.TaxDeduction = p.BaseSalary * taxRate
	p.ProvidentFund = p.BaseSalary * pfRate
	recomputeTotals(p)
}

// recomputeTotals rederives gross and net from the current components
// without touching the tax or provident fund amounts.
func recomputeTotals(p *Payroll) {
	p.GrossSalary = p.BaseSalary + p.Allowances
	p.NetSalary = p.GrossSalary - (p.Deductions + p.TaxDeduction + p.ProvidentFund)
}

func (s *service) Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error) {
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidUserID
	}
	if req.Month < 1 || req.Month > 12 {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.UserExists(ctx, req.UserID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !exists {
		return PayrollResponse{}, payrollerrors.ErrUserNotFound
	}

	if _, err := qtx.FindByUserAndPeriod(ctx, req.UserID, req.Month, req.Year); err == nil {
		return PayrollResponse{}, payrollerrors.ErrDuplicatePayroll
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollResponse{}, err
	}

	salary, err := qtx.GetSalaryStructure(ctx, req.UserID)
	if err != nil {
		return PayrollResponse{}, err
	}
	counts, err := qtx.CountAttendance(ctx, req.UserID, req.Month, req.Year)
	if err != nil {
		return PayrollResponse{}, err
	}

	record := &Payroll{
		ID:          uuid.New(),
		UserID:      uid,
		Month:       req.Month,
		Year:        req.Year,
		BaseSalary:  salary.BaseSalary,
		Allowances:  salary.Allowances,
		Deductions:  salary.Deductions,
		WorkingDays: workingDaysIn(req.Month, req.Year),
		PresentDays: counts.PresentDays,
		AbsentDays:  counts.AbsentDays,
		HalfDays:    counts.HalfDays,
		Status:      StatusPending,
	}
	computeSalary(record)

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("generate payroll persist failed",
			zap.String("user_id", req.UserID),
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}
	if err := s.emitCycle(ctx, qtx, record, events.PayrollGenerated); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll generated",
		zap.String("payroll_id", record.ID.String()),
		zap.String("user_id", req.UserID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Float64("net_salary", record.NetSalary),
	)
	return mapToResponse(*record), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if record.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPaid
	}

	if req.BaseSalary != nil {
		record.BaseSalary = *req.BaseSalary
	}
	if req.Allowances != nil {
		record.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		record.Deductions = *req.Deductions
	}
	if req.TaxDeduction != nil {
		record.TaxDeduction = *req.TaxDeduction
	}
	if req.ProvidentFund != nil {
		record.ProvidentFund = *req.ProvidentFund
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	recomputeTotals(record)

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll updated", zap.String("payroll_id", id))
	return mapToResponse(*record), nil
}

func (s *service) Approve(ctx context.Context, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if record.Status != StatusPending {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	record.Status = StatusApproved

	rows, err := qtx.UpdateStatusFrom(ctx, record, StatusPending)
	if err != nil {
		return PayrollResponse{}, err
	}
	if rows == 0 {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}
	if err := s.emitCycle(ctx, qtx, record, events.PayrollApproved); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll approved", zap.String("payroll_id", id))
	return mapToResponse(*record), nil
}

func (s *service) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if record.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPaid
	}
	if s.cfg.RequireApprovedBeforePaid && record.Status != StatusApproved {
		return PayrollResponse{}, payrollerrors.ErrNotApproved
	}

	prior := record.Status
	now := s.now().UTC()
	record.Status = StatusPaid
	record.PaymentDate = &now
	record.PaymentMethod = &req.PaymentMethod
	record.BankDetails = req.BankDetails

	rows, err := qtx.UpdateStatusFrom(ctx, record, prior)
	if err != nil {
		return PayrollResponse{}, err
	}
	if rows == 0 {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPaid
	}
	if err := s.emitCycle(ctx, qtx, record, events.PayrollPaid); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll marked paid",
		zap.String("payroll_id", id),
		zap.String("payment_method", req.PaymentMethod),
	)
	return mapToResponse(*record), nil
}

// Report aggregates the payrolls matching the filter and returns them
// alongside the summary. Month, year and status are all optional.
func (s *service) Report(ctx context.Context, filter ListFilter) (ReportResponse, error) {
	if filter.Month != 0 && (filter.Month < 1 || filter.Month > 12) {
		return ReportResponse{}, payrollerrors.ErrInvalidPeriod
	}
	if filter.Year != 0 && (filter.Year < 2000 || filter.Year > 2100) {
		return ReportResponse{}, payrollerrors.ErrInvalidPeriod
	}

	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return ReportResponse{}, err
	}

	summary := ReportSummary{
		Month:        filter.Month,
		Year:         filter.Year,
		TotalRecords: len(records),
	}
	payrolls := make([]PayrollResponse, len(records))
	for i, p := range records {
		summary.TotalGross += p.GrossSalary
		summary.TotalNet += p.NetSalary
		summary.TotalTax += p.TaxDeduction
		summary.TotalPF += p.ProvidentFund
		summary.TotalDeducted += p.Deductions
		switch p.Status {
		case StatusPending:
			summary.PendingCount++
		case StatusApproved:
			summary.ApprovedCount++
		case StatusPaid:
			summary.PaidCount++
		}
		payrolls[i] = mapToResponse(p)
	}
	return ReportResponse{Summary: summary, Payrolls: payrolls}, nil
}

func (s *service) GetMy(ctx context.Context, userID string, filter ListFilter) ([]PayrollResponse, error) {
	filter.UserID = userID
	return s.GetAll(ctx, filter)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]PayrollResponse, error) {
	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollResponse, len(records))
	for i, p := range records {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleHR && record.UserID.String() != actorID {
		return PayrollResponse{}, payrollerrors.ErrNotResourceOwner
	}
	return mapToResponse(*record), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return err
	}
	if record.Status == StatusPaid {
		return payrollerrors.ErrAlreadyPaid
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) findForUpdate(ctx context.Context, qtx Repository, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidPayrollID
	}
	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) emitCycle(ctx context.Context, qtx Repository, record *Payroll, action string) error {
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll",
		record.ID.String(),
		"payroll_cycle",
		events.TopicPayrollCycle,
		events.PayrollCycle{
			PayrollID:  record.ID.String(),
			UserID:     record.UserID.String(),
			Month:      record.Month,
			Year:       record.Year,
			Action:     action,
			NetSalary:  record.NetSalary,
			OccurredAt: s.now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	return s.outboxWithTx(qtx).Create(ctx, event)
}

// outboxWithTx reuses the repository's transaction for the outbox write
// so the event row commits atomically with the payroll row.
func (s *service) outboxWithTx(qtx Repository) kafka.OutboxRepository {
	if r, ok := qtx.(*repository); ok && r.tx != nil {
		return s.outbox.WithTx(r.tx)
	}
	return s.outbox
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		Month:         p.Month,
		Year:          p.Year,
		BaseSalary:    p.BaseSalary,
		Allowances:    p.Allowances,
		Deductions:    p.Deductions,
		GrossSalary:   p.GrossSalary,
		TaxDeduction:  p.TaxDeduction,
		ProvidentFund: p.ProvidentFund,
		NetSalary:     p.NetSalary,
		WorkingDays:   p.WorkingDays,
		PresentDays:   p.PresentDays,
		AbsentDays:    p.AbsentDays,
		HalfDays:      p.HalfDays,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}
	if p.User != nil {
		resp.EmployeeName = p.User.FirstName + " " + p.User.LastName
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &v
	}
	return resp
}
