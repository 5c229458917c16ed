package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrms/internal/rbac"
	usererrors "go-hrms/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetProfile(ctx context.Context, userID string) (UserResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]UserResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (UserResponse, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateUserRequest) (UserResponse, error)
	UpdatePassword(ctx context.Context, actorID, actorRole, id string, req UpdatePasswordRequest) error
	SetActive(ctx context.Context, id string, active bool) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	AddDocument(ctx context.Context, actorID, actorRole, id string, req AddDocumentRequest) (UserResponse, error)
	RemoveDocument(ctx context.Context, actorID, actorRole, id, documentID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// canAccess is the single ownership check: a user may touch their own record,
// admins and HR may touch anyone's.
func canAccess(actorID, actorRole, targetID string) bool {
	if actorRole == rbac.RoleAdmin || actorRole == rbac.RoleHR {
		return true
	}
	return actorID == targetID
}

func (s *service) GetProfile(ctx context.Context, userID string) (UserResponse, error) {
	return s.findUser(ctx, userID)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (UserResponse, error) {
	if !canAccess(actorID, actorRole, id) {
		return UserResponse{}, usererrors.ErrNotResourceOwner
	}
	return s.findUser(ctx, id)
}

func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if !canAccess(actorID, actorRole, id) {
		return UserResponse{}, usererrors.ErrNotResourceOwner
	}

	// Role and salary structure are admin-only fields
	touchesAdminFields := req.Role != nil || req.BaseSalary != nil || req.Allowances != nil || req.Deductions != nil
	if touchesAdminFields && actorRole != rbac.RoleAdmin {
		return UserResponse{}, usererrors.ErrRoleChangeForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Department != nil {
		u.Department = req.Department
	}
	if req.Designation != nil {
		u.Designation = req.Designation
	}
	if req.JoiningDate != nil {
		d, err := time.Parse("2006-01-02", *req.JoiningDate)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidDateFormat
		}
		u.JoiningDate = &d
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.BaseSalary != nil {
		u.BaseSalary = *req.BaseSalary
	}
	if req.Allowances != nil {
		u.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		u.Deductions = *req.Deductions
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("user updated", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) UpdatePassword(ctx context.Context, actorID, actorRole, id string, req UpdatePasswordRequest) error {
	if !canAccess(actorID, actorRole, id) {
		return usererrors.ErrNotResourceOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	// Admins reset without knowing the current password
	if actorRole != rbac.RoleAdmin {
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
			return usererrors.ErrWrongPassword
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)

	if err := qtx.Update(ctx, u); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.IsActive = active
	if err := qtx.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("user active flag changed",
		zap.String("user_id", id),
		zap.Bool("is_active", active),
	)
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) AddDocument(ctx context.Context, actorID, actorRole, id string, req AddDocumentRequest) (UserResponse, error) {
	if !canAccess(actorID, actorRole, id) {
		return UserResponse{}, usererrors.ErrNotResourceOwner
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	doc := &Document{
		ID:           uuid.New(),
		UserID:       userID,
		DocumentName: req.DocumentName,
		DocumentURL:  req.DocumentURL,
	}
	if err := qtx.AddDocument(ctx, doc); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	return s.findUser(ctx, id)
}

func (s *service) RemoveDocument(ctx context.Context, actorID, actorRole, id, documentID string) error {
	if !canAccess(actorID, actorRole, id) {
		return usererrors.ErrNotResourceOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindDocument(ctx, id, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrDocumentNotFound
		}
		return err
	}
	if err := qtx.DeleteDocument(ctx, id, documentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) findUser(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		EmployeeID:  u.EmployeeID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Department:  u.Department,
		Designation: u.Designation,
		SalaryStructure: SalaryStructureResponse{
			BaseSalary: u.BaseSalary,
			Allowances: u.Allowances,
			Deductions: u.Deductions,
		},
		LeaveBalance: LeaveBalanceResponse{
			PaidLeave:   u.PaidLeave,
			SickLeave:   u.SickLeave,
			UnpaidLeave: u.UnpaidLeave,
		},
		IsActive: u.IsActive,
	}
	if u.JoiningDate != nil {
		v := u.JoiningDate.Format("2006-01-02")
		resp.JoiningDate = &v
	}
	for _, d := range u.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			ID:           d.ID.String(),
			DocumentName: d.DocumentName,
			DocumentURL:  d.DocumentURL,
			UploadedAt:   d.UploadedAt.Format(time.RFC3339),
		})
	}
	return resp
}
