package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// UserInput carries the writable user fields. Password is optional on
// update and required on create.
type UserInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	JobTitle   string `json:"jobTitle"`
	Department string `json:"department"`
	Active     *bool  `json:"active"`
}

// UserService manages portal accounts within a company
type UserService struct {
	users  data.UserRepositoryInterface
	logger *observability.Logger
}

// NewUserService creates the user service
func NewUserService(users data.UserRepositoryInterface, logger *observability.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// List returns all users in the company
func (s *UserService) List(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	return s.users.ListByCompany(ctx, companyID)
}

// Get returns one user, refusing ids outside the company scope
func (s *UserService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil || *user.CompanyID != companyID {
		return nil, data.ErrNotFound
	}
	return user, nil
}

// Create adds a user to the company. Only a superadmin actor may grant the
// superadmin role.
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, actor *models.User, input UserInput) (*models.User, error) {
	if err := validateUserInput(input, true); err != nil {
		return nil, err
	}

	role := models.Role(input.Role)
	if input.Role == "" {
		role = models.RoleUser
	}
	if role == models.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only a superadmin may create superadmin accounts", ErrForbidden)
	}

	user := &models.User{
		CompanyID:  &companyID,
		Username:   strings.ToLower(strings.TrimSpace(input.Username)),
		Password:   input.Password,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Role:       role,
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		JobTitle:   strings.TrimSpace(input.JobTitle),
		Department: strings.TrimSpace(input.Department),
		Active:     true,
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Update modifies a user's fields. Password changes only when provided.
func (s *UserService) Update(ctx context.Context, companyID, id uuid.UUID, actor *models.User, input UserInput) (*models.User, error) {
	user, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := validateUserInput(input, false); err != nil {
		return nil, err
	}

	if input.Role != "" {
		role := models.Role(input.Role)
		if role == models.RoleSuperAdmin && !actor.IsSuperAdmin() {
			return nil, fmt.Errorf("%w: only a superadmin may grant the superadmin role", ErrForbidden)
		}
		user.Role = role
	}
	if input.Username != "" {
		user.Username = strings.ToLower(strings.TrimSpace(input.Username))
	}
	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Password != "" {
		user.Password = input.Password
	}
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.JobTitle = strings.TrimSpace(input.JobTitle)
	user.Department = strings.TrimSpace(input.Department)
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Actors cannot delete their own account, which
// keeps every company with at least one working admin session.
func (s *UserService) Delete(ctx context.Context, companyID, id uuid.UUID, actor *models.User) error {
	if actor.ID == id {
		return fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
	}
	if err := s.users.Delete(ctx, id, companyID); err != nil {
		return err
	}
	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", actor.ID.String()))
	return nil
}

func validateUserInput(input UserInput, isCreate bool) error {
	if isCreate {
		if strings.TrimSpace(input.Username) == "" {
			return fmt.Errorf("%w: username is required", ErrValidation)
		}
		if input.Password == "" {
			return fmt.Errorf("%w: password is required", ErrValidation)
		}
	}
	if input.Password != "" && len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid email address", ErrValidation)
		}
	}
	if input.Role != "" {
		switch models.Role(input.Role) {
		case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
		default:
			return fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
		}
	}
	return nil
}
