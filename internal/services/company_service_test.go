package services

import (
	"context"
	"testing"

	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCompanyRepository mocks data.CompanyRepositoryInterface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) First(ctx context.Context) (*models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSettingsRepository mocks data.SettingsRepositoryInterface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanySettings), args.Error(1)
}

func (m *MockSettingsRepository) Create(ctx context.Context, settings *models.CompanySettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *models.CompanySettings) error {
	return m.Called(ctx, settings).Error(0)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Wayne & Sons, Inc.  ", "wayne-sons-inc"},
		{"ALLCAPS", "allcaps"},
		{"a--b", "a-b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

func TestCreateCompanyDerivesSlugAndSettings(t *testing.T) {
	companies := new(MockCompanyRepository)
	settings := new(MockSettingsRepository)
	svc := NewCompanyService(companies, settings, observability.NewNopLogger())
	ctx := context.Background()

	companies.On("Create", ctx, mock.MatchedBy(func(c *models.Company) bool {
		return c.Slug == "acme-corp" && c.Status == models.CompanyStatusActive
	})).Return(nil)
	settings.On("Create", ctx, mock.AnythingOfType("*models.CompanySettings")).Return(nil)

	company, err := svc.Create(ctx, CompanyInput{Name: "Acme Corp"})
	assert.NoError(t, err)
	assert.Equal(t, "acme-corp", company.Slug)
	settings.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateCompanyValidation(t *testing.T) {
	svc := NewCompanyService(new(MockCompanyRepository), new(MockSettingsRepository), observability.NewNopLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, CompanyInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, CompanyInput{Name: "Acme", Slug: "Bad Slug!"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, CompanyInput{Name: "Acme", Status: "dormant"})
	assert.ErrorIs(t, err, ErrValidation)
}
