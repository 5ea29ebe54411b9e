package api

import (
	"errors"
	"net/http"
	"strings"

	"benefitsportal/internal/auth"
	"benefitsportal/internal/config"
	"benefitsportal/internal/data"
	"benefitsportal/internal/middleware"
	"benefitsportal/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthHandlers serves registration, login and session introspection
type AuthHandlers struct {
	authSvc   *auth.Service
	users     data.UserRepositoryInterface
	companies data.CompanyRepositoryInterface
	sanitizer *middleware.Sanitizer
	jwtCfg    *config.JWTConfig
}

// NewAuthHandlers creates the auth handlers
func NewAuthHandlers(authSvc *auth.Service, users data.UserRepositoryInterface, companies data.CompanyRepositoryInterface, sanitizer *middleware.Sanitizer, jwtCfg *config.JWTConfig) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		users:     users,
		companies: companies,
		sanitizer: sanitizer,
		jwtCfg:    jwtCfg,
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanySlug string `json:"companySlug" binding:"required"`
}

// Register handles POST /api/register. Self-registration always lands in
// the user tier; admins are promoted by an existing admin afterwards.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid registration payload"})
		return
	}

	company, err := h.companies.GetBySlug(c.Request.Context(), strings.ToLower(req.CompanySlug))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown company"})
			return
		}
		respondError(c, err)
		return
	}
	if !company.IsActive() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Company is not accepting registrations"})
		return
	}

	user := &models.User{
		CompanyID: &company.ID,
		Username:  strings.ToLower(strings.TrimSpace(req.Username)),
		Password:  req.Password,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      models.RoleUser,
		FirstName: h.sanitizer.Clean(req.FirstName),
		LastName:  h.sanitizer.Clean(req.LastName),
		Active:    true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	h.establishSession(c, user)
	c.JSON(http.StatusCreated, userView(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), strings.ToLower(req.Username), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserLocked):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Account temporarily locked"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		default:
			respondError(c, err)
		}
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userView(user)})
}

// Logout handles POST /api/logout by expiring the session cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(h.jwtCfg.CookieName, "", -1, "/", "", h.jwtCfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CurrentUser handles GET /api/user
func (h *AuthHandlers) CurrentUser(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

func (h *AuthHandlers) establishSession(c *gin.Context, user *models.User) {
	token, err := h.authSvc.IssueToken(user)
	if err != nil {
		return
	}
	h.setSessionCookie(c, token)
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.jwtCfg.ExpiryDuration.Seconds())
	c.SetCookie(h.jwtCfg.CookieName, token, maxAge, "/", "", h.jwtCfg.CookieSecure, true)
}

// userView strips credential fields from API responses
func userView(user *models.User) gin.H {
	view := gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"firstName":  user.FirstName,
		"lastName":   user.LastName,
		"jobTitle":   user.JobTitle,
		"department": user.Department,
		"active":     user.Active,
		"createdAt":  user.CreatedAt,
	}
	if user.CompanyID != nil {
		view["companyId"] = *user.CompanyID
	}
	return view
}

// scopedUser loads the acting user for service calls that need the full row
func scopedUser(c *gin.Context, users data.UserRepositoryInterface) (*models.User, bool) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return nil, false
	}
	user, err := users.GetByID(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return nil, false
	}
	return user, true
}
