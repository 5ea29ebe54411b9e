package data

import (
	"context"
	"strings"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// CompanyRepositoryInterface defines the company repository operations
type CompanyRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	First(ctx context.Context) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	Create(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	db *pg.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *pg.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetByID retrieves a company by its ID
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := new(models.Company)
	err := r.db.ModelContext(ctx, company).
		Where("id = ?", id).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

// GetBySlug retrieves a company by its unique slug
func (r *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	company := new(models.Company)
	err := r.db.ModelContext(ctx, company).
		Where("slug = ?", slug).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

// First retrieves the oldest company; the superadmin default scope
func (r *CompanyRepository) First(ctx context.Context) (*models.Company, error) {
	company := new(models.Company)
	err := r.db.ModelContext(ctx, company).
		Order("created_at ASC").
		Limit(1).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

// List retrieves all companies
func (r *CompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	var companies []*models.Company
	err := r.db.ModelContext(ctx, &companies).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	_, err := r.db.ModelContext(ctx, company).Insert()
	if err != nil {
		if isDuplicateError(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// Update updates an existing company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	res, err := r.db.ModelContext(ctx, company).
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

// Delete removes a company row. Child rows are intentionally left in place;
// tenant teardown is a manual superadmin operation.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.Company)(nil)).
		Where("id = ?", id).
		Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateError checks if the error is a unique-constraint violation
func isDuplicateError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
