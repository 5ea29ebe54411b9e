package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// UserRepositoryInterface defines the user repository operations
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id, companyID uuid.UUID) error
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pg.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := new(models.User)
	err := r.db.ModelContext(ctx, user).
		Where("id = ?", id).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.ModelContext(ctx, user).
		Where("username = ?", username).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListByCompany retrieves all users belonging to a company
func (r *UserRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	err := r.db.ModelContext(ctx, &users).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ModelContext(ctx, user).Insert()
	if err != nil {
		if isDuplicateError(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	res, err := r.db.ModelContext(ctx, user).
		WherePK().
		Update()
	if err != nil {
		if isDuplicateError(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user scoped to a company
func (r *UserRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.User)(nil)).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
