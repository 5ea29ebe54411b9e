package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// SettingsRepositoryInterface defines the company settings operations
type SettingsRepositoryInterface interface {
	GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.CompanySettings, error)
	Create(ctx context.Context, settings *models.CompanySettings) error
	Update(ctx context.Context, settings *models.CompanySettings) error
}

// SettingsRepository handles database operations for company settings
type SettingsRepository struct {
	db *pg.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *pg.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByCompany retrieves the settings row for a company
func (r *SettingsRepository) GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.CompanySettings, error) {
	settings := new(models.CompanySettings)
	err := r.db.ModelContext(ctx, settings).
		Where("company_id = ?", companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return settings, nil
}

// Create inserts a new settings row
func (r *SettingsRepository) Create(ctx context.Context, settings *models.CompanySettings) error {
	_, err := r.db.ModelContext(ctx, settings).Insert()
	if err != nil {
		if isDuplicateError(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// Update updates an existing settings row
func (r *SettingsRepository) Update(ctx context.Context, settings *models.CompanySettings) error {
	res, err := r.db.ModelContext(ctx, settings).
		WherePK().
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
