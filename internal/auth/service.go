package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"benefitsportal/internal/config"
	"benefitsportal/internal/data"
	"benefitsportal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authentication errors. Credential failures are reported generically so the
// API never reveals whether a username exists.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserLocked         = errors.New("account is temporarily locked")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// Claims represents the session token claims
type Claims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id,omitempty"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Session describes an authenticated caller, resolved from a token
type Session struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Username  string
	Role      models.Role
}

// IsAdmin reports whether the session carries admin or superadmin rights
func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin || s.Role == models.RoleSuperAdmin
}

// IsSuperAdmin reports whether the session belongs to a superadmin
func (s *Session) IsSuperAdmin() bool {
	return s.Role == models.RoleSuperAdmin
}

// Service provides authentication functionality
type Service struct {
	users        data.UserRepositoryInterface
	cfg          *config.JWTConfig
	maxAttempts  int
	lockDuration time.Duration
}

// NewService creates a new authentication service
func NewService(users data.UserRepositoryInterface, cfg *config.JWTConfig) *Service {
	return &Service{
		users:        users,
		cfg:          cfg,
		maxAttempts:  5,
		lockDuration: 15 * time.Minute,
	}
}

// Login verifies credentials and returns a signed session token
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("database error: %w", err)
	}

	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}
	if user.IsLocked() {
		return "", nil, ErrUserLocked
	}

	if !user.CheckPassword(password) {
		user.FailedAttempts++
		if user.FailedAttempts >= s.maxAttempts {
			user.LockedUntil = time.Now().Add(s.lockDuration)
			user.FailedAttempts = 0
		}
		_ = s.users.Update(ctx, user)
		return "", nil, ErrInvalidCredentials
	}

	user.FailedAttempts = 0
	user.LockedUntil = time.Time{}
	user.LastLogin = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a session token for the user
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ExpiryDuration)),
			Subject:   user.ID.String(),
		},
	}
	if user.CompanyID != nil {
		claims.CompanyID = user.CompanyID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ValidateToken parses and verifies a session token
func (s *Service) ValidateToken(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session := &Session{
		UserID:   userID,
		Username: claims.Username,
		Role:     models.Role(claims.Role),
	}
	if claims.CompanyID != "" {
		companyID, err := uuid.Parse(claims.CompanyID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		session.CompanyID = &companyID
	}

	return session, nil
}
