package services

import (
	"context"
	"testing"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks data.UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	return m.Called(ctx, id, companyID).Error(0)
}

func adminActor(companyID uuid.UUID) *models.User {
	return &models.User{ID: uuid.New(), CompanyID: &companyID, Role: models.RoleAdmin}
}

func TestCreateUserDefaultsRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, observability.NewNopLogger())
	ctx := context.Background()
	companyID := uuid.New()

	repo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser && u.Username == "jsmith" && u.Active
	})).Return(nil)

	user, err := svc.Create(ctx, companyID, adminActor(companyID), UserInput{
		Username: "  JSmith  ",
		Password: "long-enough",
		Email:    "j.smith@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "j.smith@example.com", user.Email)
}

func TestCreateUserSuperadminGrantRequiresSuperadmin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, observability.NewNopLogger())
	ctx := context.Background()
	companyID := uuid.New()

	_, err := svc.Create(ctx, companyID, adminActor(companyID), UserInput{
		Username: "root",
		Password: "long-enough",
		Role:     string(models.RoleSuperAdmin),
	})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Create")

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	super := &models.User{ID: uuid.New(), Role: models.RoleSuperAdmin}
	_, err = svc.Create(ctx, companyID, super, UserInput{
		Username: "root",
		Password: "long-enough",
		Role:     string(models.RoleSuperAdmin),
	})
	assert.NoError(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), observability.NewNopLogger())
	ctx := context.Background()
	companyID := uuid.New()
	actor := adminActor(companyID)

	tests := []struct {
		name  string
		input UserInput
	}{
		{"missing username", UserInput{Password: "long-enough"}},
		{"missing password", UserInput{Username: "jsmith"}},
		{"short password", UserInput{Username: "jsmith", Password: "short"}},
		{"bad email", UserInput{Username: "jsmith", Password: "long-enough", Email: "not-an-email"}},
		{"unknown role", UserInput{Username: "jsmith", Password: "long-enough", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, companyID, actor, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetUserRefusesForeignCompany(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, observability.NewNopLogger())
	ctx := context.Background()
	companyID := uuid.New()
	otherCompany := uuid.New()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{ID: userID, CompanyID: &otherCompany}, nil)

	_, err := svc.Get(ctx, companyID, userID)
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestDeleteUserBlocksSelf(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, observability.NewNopLogger())
	ctx := context.Background()
	companyID := uuid.New()
	actor := adminActor(companyID)

	err := svc.Delete(ctx, companyID, actor.ID, actor)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete")

	otherID := uuid.New()
	repo.On("Delete", ctx, otherID, companyID).Return(nil)
	assert.NoError(t, svc.Delete(ctx, companyID, otherID, actor))
}
