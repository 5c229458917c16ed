package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const employeeIDCounter = "employee_id"

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo        Repository
	counterRepo counter.Repository
	logger      *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, counterRepo: counterRepo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	taken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	if taken {
		return AuthResponse{}, autherrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	seq, err := s.counterRepo.GetNextValue(ctx, employeeIDCounter)
	if err != nil {
		return AuthResponse{}, err
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	u := &user.User{
		ID:         uuid.New(),
		EmployeeID: fmt.Sprintf("EMP-%04d", seq),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   string(hashed),
		Phone:      phone,
		Role:       rbac.RoleEmployee,
		// Yearly entitlement defaults
		PaidLeave:   12,
		SickLeave:   5,
		UnpaidLeave: 0,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("register persist failed", zap.String("email", req.Email), zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("employee_id", u.EmployeeID),
	)
	return mapToAuthResponse(u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	accessToken, err := s.generateToken(u.ID.String(), u.Role, 15*time.Minute)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	refreshToken, err := s.generateToken(u.ID.String(), u.Role, 7*24*time.Hour)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	return accessToken, refreshToken, mapToAuthResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", AuthResponse{}, autherrors.ErrUserNotFound
		}
		return "", "", AuthResponse{}, err
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	newAccess, err := s.generateToken(u.ID.String(), u.Role, 15*time.Minute)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	newRefresh, err := s.generateToken(u.ID.String(), u.Role, 7*24*time.Hour)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccess, newRefresh, mapToAuthResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	return mapToAuthResponse(u), nil
}

func (s *service) generateToken(userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		EmployeeID: u.EmployeeID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       u.Role,
	}
}
