package middleware

import (
	"net/http"
	"strings"

	"benefitsportal/internal/auth"
	"benefitsportal/internal/models"

	"github.com/gin-gonic/gin"
)

// Context key under which the resolved session is stored
const SessionKey = "session"

// AuthMiddleware handles authentication and role checks
type AuthMiddleware struct {
	authSvc    *auth.Service
	cookieName string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authSvc *auth.Service, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authSvc:    authSvc,
		cookieName: cookieName,
	}
}

// Authenticate verifies the session token from the Authorization header or
// the session cookie and injects the session into the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Not authenticated",
			})
			return
		}

		session, err := m.authSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired session",
			})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// RequireAdmin fails with Forbidden unless the session role is admin or superadmin
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.requireRole(models.RoleAdmin, models.RoleSuperAdmin)
}

// RequireSuperAdmin fails with Forbidden unless the session role is superadmin
func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return m.requireRole(models.RoleSuperAdmin)
}

func (m *AuthMiddleware) requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Not authenticated",
			})
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		// 403 without revealing anything about the resource
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Insufficient permissions",
		})
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// SessionFrom returns the authenticated session from the gin context, or nil
func SessionFrom(c *gin.Context) *auth.Session {
	value, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
