package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"benefitsportal/internal/auth"
	"benefitsportal/internal/data"
	"benefitsportal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubCompanyRepo serves a fixed first company
type stubCompanyRepo struct {
	first    *models.Company
	firstErr error
}

func (s *stubCompanyRepo) GetByID(_ context.Context, _ uuid.UUID) (*models.Company, error) {
	return nil, data.ErrNotFound
}

func (s *stubCompanyRepo) GetBySlug(_ context.Context, _ string) (*models.Company, error) {
	return nil, data.ErrNotFound
}

func (s *stubCompanyRepo) First(_ context.Context) (*models.Company, error) {
	return s.first, s.firstErr
}

func (s *stubCompanyRepo) List(_ context.Context) ([]*models.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) Create(_ context.Context, _ *models.Company) error { return nil }
func (s *stubCompanyRepo) Update(_ context.Context, _ *models.Company) error { return nil }
func (s *stubCompanyRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }

func scopeRequest(t *testing.T, repo data.CompanyRepositoryInterface, session *auth.Session, query string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/documents"+query, nil)
	if session != nil {
		c.Set(SessionKey, session)
	}

	NewScopeMiddleware(repo).ResolveCompanyScope()(c)
	scope, ok := CompanyScopeFrom(c)
	return w, scope, ok
}

func TestScopeOwnCompanyForUser(t *testing.T) {
	companyID := uuid.New()
	session := &auth.Session{UserID: uuid.New(), CompanyID: &companyID, Role: models.RoleUser}

	w, scope, ok := scopeRequest(t, &stubCompanyRepo{}, session, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, companyID, scope)
}

func TestScopeUserRequestingOwnCompanyExplicitly(t *testing.T) {
	companyID := uuid.New()
	session := &auth.Session{UserID: uuid.New(), CompanyID: &companyID, Role: models.RoleAdmin}

	w, scope, ok := scopeRequest(t, &stubCompanyRepo{}, session, "?companyId="+companyID.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, companyID, scope)
}

func TestScopeForeignCompanyForbidden(t *testing.T) {
	companyID := uuid.New()
	session := &auth.Session{UserID: uuid.New(), CompanyID: &companyID, Role: models.RoleAdmin}

	w, _, ok := scopeRequest(t, &stubCompanyRepo{}, session, "?companyId="+uuid.New().String())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, ok)
}

func TestScopeUserWithoutCompany(t *testing.T) {
	session := &auth.Session{UserID: uuid.New(), Role: models.RoleUser}

	w, _, ok := scopeRequest(t, &stubCompanyRepo{}, session, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, ok)
}

func TestScopeSuperadminExplicitCompany(t *testing.T) {
	target := uuid.New()
	session := &auth.Session{UserID: uuid.New(), Role: models.RoleSuperAdmin}

	w, scope, ok := scopeRequest(t, &stubCompanyRepo{}, session, "?companyId="+target.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, target, scope)
}

func TestScopeSuperadminDefaultsToFirstCompany(t *testing.T) {
	first := &models.Company{ID: uuid.New(), Name: "First"}
	session := &auth.Session{UserID: uuid.New(), Role: models.RoleSuperAdmin}

	w, scope, ok := scopeRequest(t, &stubCompanyRepo{first: first}, session, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, first.ID, scope)
}

func TestScopeSuperadminInvalidCompanyID(t *testing.T) {
	session := &auth.Session{UserID: uuid.New(), Role: models.RoleSuperAdmin}

	w, _, ok := scopeRequest(t, &stubCompanyRepo{}, session, "?companyId=not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, ok)
}

func TestScopeNoSessionUnauthorized(t *testing.T) {
	w, _, ok := scopeRequest(t, &stubCompanyRepo{}, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}
