package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CompanyInput carries the writable company fields
type CompanyInput struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Domain  string `json:"domain"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// CompanyService manages companies, the portal's tenants
type CompanyService struct {
	companies data.CompanyRepositoryInterface
	settings  data.SettingsRepositoryInterface
	logger    *observability.Logger
}

// NewCompanyService creates the company service
func NewCompanyService(companies data.CompanyRepositoryInterface, settings data.SettingsRepositoryInterface, logger *observability.Logger) *CompanyService {
	return &CompanyService{companies: companies, settings: settings, logger: logger}
}

// List returns all companies
func (s *CompanyService) List(ctx context.Context) ([]*models.Company, error) {
	return s.companies.List(ctx)
}

// Get returns one company by id
func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// GetBySlug returns one company by its URL slug
func (s *CompanyService) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	return s.companies.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// Create adds a company along with its default settings row
func (s *CompanyService) Create(ctx context.Context, input CompanyInput) (*models.Company, error) {
	company, err := s.buildCompany(input)
	if err != nil {
		return nil, err
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	// Settings are created eagerly so branding reads never miss
	settings := &models.CompanySettings{CompanyID: company.ID}
	if err := s.settings.Create(ctx, settings); err != nil {
		s.logger.Error("failed to create default company settings", err,
			zap.String("company_id", company.ID.String()))
	}

	s.logger.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("slug", company.Slug))
	return company, nil
}

// Update modifies a company's fields
func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, input CompanyInput) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildCompany(input)
	if err != nil {
		return nil, err
	}

	company.Name = updated.Name
	company.Slug = updated.Slug
	company.Domain = updated.Domain
	company.Address = updated.Address
	company.Status = updated.Status

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes a company. Rows in other tables that reference it are left
// in place and become unreachable through the scoped queries.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("company deleted", zap.String("company_id", id.String()))
	return nil
}

func (s *CompanyService) buildCompany(input CompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrValidation)
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug may only contain lowercase letters, digits and hyphens", ErrValidation)
	}

	status := models.CompanyStatus(input.Status)
	if input.Status == "" {
		status = models.CompanyStatusActive
	}
	switch status {
	case models.CompanyStatusActive, models.CompanyStatusInactive, models.CompanyStatusSuspended:
	default:
		return nil, fmt.Errorf("%w: unknown company status %q", ErrValidation, input.Status)
	}

	return &models.Company{
		Name:    name,
		Slug:    slug,
		Domain:  strings.TrimSpace(input.Domain),
		Address: strings.TrimSpace(input.Address),
		Status:  status,
	}, nil
}

// Slugify turns a display name into a URL slug
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
