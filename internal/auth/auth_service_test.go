package auth_test

import (
	"context"
	"testing"

	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/rbac"
	"go-hrms/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	createFn      func(ctx context.Context, u *user.User) error
	getByEmailFn  func(ctx context.Context, email string) (*user.User, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*user.User, error)
	emailExistsFn func(ctx context.Context, email string) (bool, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if f.emailExistsFn != nil {
		return f.emailExistsFn(ctx, email)
	}
	return false, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success assigns employee id and defaults", func(t *testing.T) {
		repo := &fakeAuthRepository{}
		counterRepo := &fakeCounterRepository{next: 41}

		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}

		svc := auth.NewService(repo, counterRepo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-0042", resp.EmployeeID)
		assert.Equal(t, rbac.RoleEmployee, resp.Role)

		assert.NotNil(t, created)
		assert.Equal(t, 12, created.PaidLeave)
		assert.Equal(t, 5, created.SickLeave)
		assert.Equal(t, 0, created.UnpaidLeave)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "s3cret-pass", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
	})

	t.Run("negative email taken", func(t *testing.T) {
		repo := &fakeAuthRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}

		svc := auth.NewService(repo, &fakeCounterRepository{})
		_, err := svc.Register(ctx, auth.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "s3cret-pass",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	assert.NoError(t, err)

	activeUser := func() *user.User {
		return &user.User{
			ID:         uuid.New(),
			EmployeeID: "EMP-0001",
			Email:      "ada@example.com",
			Password:   string(hashed),
			Role:       rbac.RoleEmployee,
			IsActive:   true,
		}
	}

	t.Run("success issues token pair", func(t *testing.T) {
		u := activeUser()
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}

		svc := auth.NewService(repo, &fakeCounterRepository{})
		access, refresh, resp, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, u.ID.String(), resp.ID)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(), nil
			},
		}

		svc := auth.NewService(repo, &fakeCounterRepository{})
		_, _, _, err := svc.Login(ctx, "ada@example.com", "wrong-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeCounterRepository{})
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive user", func(t *testing.T) {
		u := activeUser()
		u.IsActive = false
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}

		svc := auth.NewService(repo, &fakeCounterRepository{})
		_, _, _, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success round trip", func(t *testing.T) {
		u := &user.User{
			ID:       uuid.New(),
			Email:    "ada@example.com",
			Password: mustHash(t, "s3cret-pass"),
			Role:     rbac.RoleEmployee,
			IsActive: true,
		}
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
		}

		svc := auth.NewService(repo, &fakeCounterRepository{})
		_, refresh, _, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
		assert.NoError(t, err)

		access, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, u.ID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeCounterRepository{})
		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}
