package auth

import (
	"context"
	"testing"
	"time"

	"benefitsportal/internal/config"
	"benefitsportal/internal/data"
	"benefitsportal/internal/models"

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

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:         "test-secret-for-signing",
		ExpiryDuration: time.Hour,
		CookieName:     "session",
	}
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := models.HashPassword(password)
	assert.NoError(t, err)

	companyID := uuid.New()
	return &models.User{
		ID:           uuid.New(),
		CompanyID:    &companyID,
		Username:     "jdoe",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testJWTConfig())
	ctx := context.Background()

	user := activeUser(t, "correct horse")
	user.FailedAttempts = 3
	repo.On("GetByUsername", ctx, "jdoe").Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)

	token, got, err := svc.Login(ctx, "jdoe", "correct horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)
	assert.Zero(t, got.FailedAttempts, "successful login resets the counter")
	assert.False(t, got.LastLogin.IsZero())
}

func TestLoginGenericErrors(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testJWTConfig())
	ctx := context.Background()

	// unknown username and wrong password produce the identical error
	repo.On("GetByUsername", ctx, "nobody").Return(nil, data.ErrNotFound)
	_, _, errUnknown := svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

	user := activeUser(t, "right")
	repo.On("GetByUsername", ctx, "jdoe").Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)
	_, _, errWrong := svc.Login(ctx, "jdoe", "wrong")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)

	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginInactiveUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testJWTConfig())
	ctx := context.Background()

	user := activeUser(t, "pw123456")
	user.Active = false
	repo.On("GetByUsername", ctx, "jdoe").Return(user, nil)

	_, _, err := svc.Login(ctx, "jdoe", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testJWTConfig())
	ctx := context.Background()

	user := activeUser(t, "right")
	repo.On("GetByUsername", ctx, "jdoe").Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(ctx, "jdoe", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.True(t, user.IsLocked())

	// even the right password fails while locked
	_, _, err := svc.Login(ctx, "jdoe", "right")
	assert.ErrorIs(t, err, ErrUserLocked)
}

func TestTokenRoundTrip(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testJWTConfig())

	user := activeUser(t, "pw123456")
	token, err := svc.IssueToken(user)
	assert.NoError(t, err)

	session, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, user.Username, session.Username)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.NotNil(t, session.CompanyID)
	assert.Equal(t, *user.CompanyID, *session.CompanyID)
	assert.True(t, session.IsAdmin())
	assert.False(t, session.IsSuperAdmin())
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := NewService(new(MockUserRepository), testJWTConfig())
	other := NewService(new(MockUserRepository), &config.JWTConfig{
		Secret:         "a-different-secret",
		ExpiryDuration: time.Hour,
	})

	user := activeUser(t, "pw123456")
	token, err := other.IssueToken(user)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpiryDuration = -time.Minute
	svc := NewService(new(MockUserRepository), cfg)

	user := activeUser(t, "pw123456")
	token, err := svc.IssueToken(user)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSuperadminTokenWithoutCompany(t *testing.T) {
	svc := NewService(new(MockUserRepository), testJWTConfig())

	user := &models.User{ID: uuid.New(), Username: "root", Role: models.RoleSuperAdmin, Active: true}
	token, err := svc.IssueToken(user)
	assert.NoError(t, err)

	session, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Nil(t, session.CompanyID)
	assert.True(t, session.IsSuperAdmin())
}
