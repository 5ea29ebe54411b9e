package middleware

import (
	"context"
	"net/http"

	"benefitsportal/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context key under which the resolved company scope is stored
const CompanyScopeKey = "company_scope"

// ScopeMiddleware resolves the effective company a request may act upon.
// Writes are always scoped by this value, never by a client-supplied one.
type ScopeMiddleware struct {
	companies data.CompanyRepositoryInterface
}

// NewScopeMiddleware creates a new company-scope middleware
func NewScopeMiddleware(companies data.CompanyRepositoryInterface) *ScopeMiddleware {
	return &ScopeMiddleware{companies: companies}
}

// ResolveCompanyScope determines the effective company ID for the request:
// the caller's own company for users and admins; for superadmins an explicit
// companyId query parameter, defaulting to the first company when absent.
// A non-superadmin requesting any company other than their own gets 403.
func (m *ScopeMiddleware) ResolveCompanyScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Not authenticated",
			})
			return
		}

		requested := c.Query("companyId")

		if !session.IsSuperAdmin() {
			if session.CompanyID == nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"message": "No company associated with this account",
				})
				return
			}
			if requested != "" && requested != session.CompanyID.String() {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"message": "Access to this company is not allowed",
				})
				return
			}
			c.Set(CompanyScopeKey, *session.CompanyID)
			c.Next()
			return
		}

		// Superadmin: honor the explicit parameter, else fall back to the
		// first company so list views have a working default.
		if requested != "" {
			companyID, err := uuid.Parse(requested)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"message": "Invalid companyId parameter",
				})
				return
			}
			c.Set(CompanyScopeKey, companyID)
			c.Next()
			return
		}

		company, err := m.companies.First(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "No companies available",
			})
			return
		}
		c.Set(CompanyScopeKey, company.ID)
		c.Next()
	}
}

// CompanyScopeFrom returns the resolved company ID from the gin context
func CompanyScopeFrom(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(CompanyScopeKey)
	if !exists {
		return uuid.Nil, false
	}
	companyID, ok := value.(uuid.UUID)
	return companyID, ok
}

// scopeContextKey carries the company scope on a context.Context for code
// below the HTTP layer.
type scopeContextKey struct{}

// WithCompanyScope stores the company scope on a context
func WithCompanyScope(ctx context.Context, companyID uuid.UUID) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, companyID)
}

// CompanyScopeFromContext returns the company scope from a context
func CompanyScopeFromContext(ctx context.Context) (uuid.UUID, bool) {
	companyID, ok := ctx.Value(scopeContextKey{}).(uuid.UUID)
	return companyID, ok
}
