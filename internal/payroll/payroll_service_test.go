package payroll_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn              func(tx *sql.Tx) payroll.Repository
	createFn              func(ctx context.Context, p *payroll.Payroll) error
	findByIDFn            func(ctx context.Context, id string) (*payroll.Payroll, error)
	findByUserAndPeriodFn func(ctx context.Context, userID string, month, year int) (*payroll.Payroll, error)
	findAllFn             func(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error)
	updateFn              func(ctx context.Context, p *payroll.Payroll) error
	updateStatusFromFn    func(ctx context.Context, p *payroll.Payroll, fromStatus string) (int64, error)
	deleteFn              func(ctx context.Context, id string) error
	userExistsFn          func(ctx context.Context, userID string) (bool, error)
	getSalaryStructureFn  func(ctx context.Context, userID string) (payroll.SalaryStructure, error)
	countAttendanceFn     func(ctx context.Context, userID string, month, year int) (payroll.AttendanceCounts, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByUserAndPeriod(ctx context.Context, userID string, month, year int) (*payroll.Payroll, error) {
	if f.findByUserAndPeriodFn != nil {
		return f.findByUserAndPeriodFn(ctx, userID, month, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAll(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) UpdateStatusFrom(ctx context.Context, p *payroll.Payroll, fromStatus string) (int64, error) {
	if f.updateStatusFromFn != nil {
		return f.updateStatusFromFn(ctx, p, fromStatus)
	}
	return 1, nil
}

func (f *fakePayrollRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakePayrollRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	if f.userExistsFn != nil {
		return f.userExistsFn(ctx, userID)
	}
	return true, nil
}

func (f *fakePayrollRepository) GetSalaryStructure(ctx context.Context, userID string) (payroll.SalaryStructure, error) {
	if f.getSalaryStructureFn != nil {
		return f.getSalaryStructureFn(ctx, userID)
	}
	return payroll.SalaryStructure{BaseSalary: 1000, Allowances: 100}, nil
}

func (f *fakePayrollRepository) CountAttendance(ctx context.Context, userID string, month, year int) (payroll.AttendanceCounts, error) {
	if f.countAttendanceFn != nil {
		return f.countAttendanceFn(ctx, userID, month, year)
	}
	return payroll.AttendanceCounts{}, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.Service
	repo    *fakePayrollRepository
	outbox  *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T, cfg payroll.Config) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	outbox := &fakeOutboxRepository{}
	svc := payroll.NewService(db, repo, outbox, cfg)

	return &payrollServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
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

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success computes salary breakdown", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.countAttendanceFn = func(ctx context.Context, uid string, month, year int) (payroll.AttendanceCounts, error) {
			return payroll.AttendanceCounts{PresentDays: 20, AbsentDays: 2, HalfDays: 1}, nil
		}
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			assert.Equal(t, payroll.StatusPending, p.Status)
			// January 2024 starts on a Monday and has 23 weekdays
			assert.Equal(t, 23, p.WorkingDays)
			return nil
		}

		emitted := false
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			emitted = true
			assert.Equal(t, "payroll_cycle", event.EventType)
			return nil
		}

		resp, err := deps.service.Generate(ctx, payroll.GeneratePayrollRequest{
			UserID: userID,
			Month:  1,
			Year:   2024,
		})

		assert.NoError(t, err)
		assert.True(t, emitted)
		assert.Equal(t, 1100.0, resp.GrossSalary)
		assert.Equal(t, 100.0, resp.TaxDeduction)
		assert.Equal(t, 50.0, resp.ProvidentFund)
		assert.Equal(t, 950.0, resp.NetSalary)
		assert.Equal(t, 20, resp.PresentDays)
		assert.Equal(t, 2, resp.AbsentDays)
		assert.Equal(t, 1, resp.HalfDays)
		assert.Equal(t, payroll.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByUserAndPeriodFn = func(ctx context.Context, uid string, month, year int) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.New()}, nil
		}

		_, err := deps.service.Generate(ctx, payroll.GeneratePayrollRequest{
			UserID: userID,
			Month:  1,
			Year:   2024,
		})

		assert.ErrorIs(t, err, payrollerrors.ErrDuplicatePayroll)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.userExistsFn = func(ctx context.Context, uid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Generate(ctx, payroll.GeneratePayrollRequest{
			UserID: userID,
			Month:  2,
			Year:   2024,
		})

		assert.ErrorIs(t, err, payrollerrors.ErrUserNotFound)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		_, err := deps.service.Generate(ctx, payroll.GeneratePayrollRequest{
			UserID: "not-a-uuid",
			Month:  2,
			Year:   2024,
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidUserID)
	})
}

func TestPayrollService_Update(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New().String()

	pendingPayroll := func() *payroll.Payroll {
		p := &payroll.Payroll{
			ID:            uuid.MustParse(payrollID),
			UserID:        uuid.New(),
			Month:         3,
			Year:          2024,
			BaseSalary:    1000,
			Allowances:    100,
			GrossSalary:   1100,
			TaxDeduction:  100,
			ProvidentFund: 50,
			NetSalary:     950,
			Status:        payroll.StatusPending,
		}
		return p
	}

	t.Run("success recomputes derived amounts", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return pendingPayroll(), nil
		}

		allowances := 200.0
		deductions := 50.0
		resp, err := deps.service.Update(ctx, payrollID, payroll.UpdatePayrollRequest{
			Allowances: &allowances,
			Deductions: &deductions,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1200.0, resp.GrossSalary)
		assert.Equal(t, 100.0, resp.TaxDeduction)
		assert.Equal(t, 50.0, resp.ProvidentFund)
		assert.Equal(t, 1000.0, resp.NetSalary)
	})

	t.Run("overrides are kept as given", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return pendingPayroll(), nil
		}

		baseSalary := 2000.0
		tax := 5.0
		pf := 7.0
		resp, err := deps.service.Update(ctx, payrollID, payroll.UpdatePayrollRequest{
			BaseSalary:    &baseSalary,
			TaxDeduction:  &tax,
			ProvidentFund: &pf,
		})

		assert.NoError(t, err)
		assert.Equal(t, 2000.0, resp.BaseSalary)
		assert.Equal(t, 5.0, resp.TaxDeduction)
		assert.Equal(t, 7.0, resp.ProvidentFund)
		assert.Equal(t, 2100.0, resp.GrossSalary)
		assert.Equal(t, 2088.0, resp.NetSalary)
	})

	t.Run("negative already paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			p := pendingPayroll()
			p.Status = payroll.StatusPaid
			return p, nil
		}

		allowances := 200.0
		_, err := deps.service.Update(ctx, payrollID, payroll.UpdatePayrollRequest{Allowances: &allowances})

		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
	})
}

func TestPayrollService_Approve(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New().String()

	t.Run("success pending to approved", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPending}, nil
		}

		resp, err := deps.service.Approve(ctx, payrollID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusApproved}, nil
		}

		_, err := deps.service.Approve(ctx, payrollID)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})
}

func TestPayrollService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New().String()

	t.Run("success records payment metadata", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPending}, nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, p *payroll.Payroll, fromStatus string) (int64, error) {
			assert.Equal(t, payroll.StatusPending, fromStatus)
			assert.Equal(t, payroll.StatusPaid, p.Status)
			assert.NotNil(t, p.PaymentDate)
			return 1, nil
		}

		resp, err := deps.service.MarkPaid(ctx, payrollID, payroll.MarkPaidRequest{PaymentMethod: "BANK_TRANSFER"})

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaymentDate)
		assert.Equal(t, "BANK_TRANSFER", *resp.PaymentMethod)
	})

	t.Run("negative already paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPaid}, nil
		}

		_, err := deps.service.MarkPaid(ctx, payrollID, payroll.MarkPaidRequest{PaymentMethod: "CASH"})
		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
	})

	t.Run("negative raced to paid by another request", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusApproved}, nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, p *payroll.Payroll, fromStatus string) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.MarkPaid(ctx, payrollID, payroll.MarkPaidRequest{PaymentMethod: "CASH"})
		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative approval gate enforced", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{RequireApprovedBeforePaid: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPending}, nil
		}

		_, err := deps.service.MarkPaid(ctx, payrollID, payroll.MarkPaidRequest{PaymentMethod: "CASH"})
		assert.ErrorIs(t, err, payrollerrors.ErrNotApproved)
	})

	t.Run("approval gate allows approved records", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{RequireApprovedBeforePaid: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusApproved}, nil
		}

		resp, err := deps.service.MarkPaid(ctx, payrollID, payroll.MarkPaidRequest{PaymentMethod: "CHEQUE"})

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
	})
}

func TestPayrollService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("success sums and counts by status", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
			assert.Equal(t, 3, filter.Month)
			assert.Equal(t, 2024, filter.Year)
			return []payroll.Payroll{
				{ID: uuid.New(), UserID: uuid.New(), GrossSalary: 1100, NetSalary: 950, TaxDeduction: 100, ProvidentFund: 50, Status: payroll.StatusPaid},
				{ID: uuid.New(), UserID: uuid.New(), GrossSalary: 2200, NetSalary: 1900, TaxDeduction: 200, ProvidentFund: 100, Deductions: 10, Status: payroll.StatusPending},
			}, nil
		}

		resp, err := deps.service.Report(ctx, payroll.ListFilter{Month: 3, Year: 2024})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Summary.TotalRecords)
		assert.Equal(t, 3300.0, resp.Summary.TotalGross)
		assert.Equal(t, 2850.0, resp.Summary.TotalNet)
		assert.Equal(t, 300.0, resp.Summary.TotalTax)
		assert.Equal(t, 150.0, resp.Summary.TotalPF)
		assert.Equal(t, 10.0, resp.Summary.TotalDeducted)
		assert.Equal(t, 1, resp.Summary.PaidCount)
		assert.Equal(t, 1, resp.Summary.PendingCount)
		assert.Equal(t, 0, resp.Summary.ApprovedCount)
		assert.Len(t, resp.Payrolls, 2)
		assert.Equal(t, 950.0, resp.Payrolls[0].NetSalary)
	})

	t.Run("status filter narrows the records", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
			assert.Equal(t, payroll.StatusPaid, filter.Status)
			assert.Zero(t, filter.Month)
			assert.Zero(t, filter.Year)
			return []payroll.Payroll{
				{ID: uuid.New(), UserID: uuid.New(), GrossSalary: 1100, NetSalary: 950, Status: payroll.StatusPaid},
			}, nil
		}

		resp, err := deps.service.Report(ctx, payroll.ListFilter{Status: payroll.StatusPaid})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Summary.TotalRecords)
		assert.Equal(t, 1, resp.Summary.PaidCount)
		assert.Len(t, resp.Payrolls, 1)
	})

	t.Run("negative invalid period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		_, err := deps.service.Report(ctx, payroll.ListFilter{Month: 13, Year: 2024})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_GetByID(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New().String()
	ownerID := uuid.New()

	t.Run("negative employee reads someone else", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: ownerID, Status: payroll.StatusPaid}, nil
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String(), rbac.RoleEmployee, payrollID)
		assert.ErrorIs(t, err, payrollerrors.ErrNotResourceOwner)
	})

	t.Run("owner reads own payroll", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: ownerID, Status: payroll.StatusPaid}, nil
		}

		resp, err := deps.service.GetByID(ctx, ownerID.String(), rbac.RoleEmployee, payrollID)
		assert.NoError(t, err)
		assert.Equal(t, payrollID, resp.ID)
	})
}

func TestPayrollService_Delete(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New().String()

	t.Run("negative paid record cannot be deleted", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPaid}, nil
		}

		err := deps.service.Delete(ctx, payrollID)
		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPending}, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, payrollID, id)
			return nil
		}

		err := deps.service.Delete(ctx, payrollID)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, payroll.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(payrollID), UserID: uuid.New(), Status: payroll.StatusPending}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			return errors.New("delete failed")
		}

		err := deps.service.Delete(ctx, payrollID)
		assert.Error(t, err)
	})
}
