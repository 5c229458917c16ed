package user

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ListFilter struct {
	Role     string
	IsActive *bool
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindAll(ctx context.Context, filter ListFilter) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	AddDocument(ctx context.Context, d *Document) error
	FindDocument(ctx context.Context, userID, documentID string) (*Document, error)
	DeleteDocument(ctx context.Context, userID, documentID string) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]User, error) {
	db := r.db.WithContext(ctx).Preload("Documents")
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	var users []User
	err := db.Order("employee_id ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Preload("Documents").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) AddDocument(ctx context.Context, d *Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindDocument(ctx context.Context, userID, documentID string) (*Document, error) {
	var d Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&d, "id = ?", documentID).Error
	return &d, err
}

func (r *repository) DeleteDocument(ctx context.Context, userID, documentID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Document{}, "id = ?", documentID).Error
}
