package services

import (
	"context"
	"fmt"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
)

// NotificationInput carries the writable notification fields. UserID nil
// with IsGlobal set broadcasts to the whole company.
type NotificationInput struct {
	UserID   *uuid.UUID `json:"userId"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Link     string     `json:"link"`
	IsGlobal bool       `json:"isGlobal"`
}

// NotificationService manages in-portal notifications
type NotificationService struct {
	notifications data.NotificationRepositoryInterface
	logger        *observability.Logger
}

// NewNotificationService creates the notification service
func NewNotificationService(notifications data.NotificationRepositoryInterface, logger *observability.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// ListForUser returns notifications visible to the user: their own plus
// company-wide broadcasts
func (s *NotificationService) ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	return s.notifications.ListForUser(ctx, companyID, userID, unreadOnly)
}

// ListAll returns every notification in the company, for admins
func (s *NotificationService) ListAll(ctx context.Context, companyID uuid.UUID) ([]*models.Notification, error) {
	return s.notifications.ListAll(ctx, companyID)
}

// Create adds a notification
func (s *NotificationService) Create(ctx context.Context, companyID uuid.UUID, input NotificationInput) (*models.Notification, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: notification title is required", ErrValidation)
	}
	if input.UserID == nil && !input.IsGlobal {
		return nil, fmt.Errorf("%w: a notification needs a recipient or the global flag", ErrValidation)
	}

	notification := &models.Notification{
		CompanyID: companyID,
		UserID:    input.UserID,
		Title:     title,
		Body:      input.Body,
		Link:      strings.TrimSpace(input.Link),
		IsGlobal:  input.IsGlobal,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// MarkRead marks a notification read, refusing ones the user cannot see
func (s *NotificationService) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) error {
	notification, err := s.notifications.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if !notification.VisibleTo(userID) {
		return data.ErrNotFound
	}
	return s.notifications.MarkRead(ctx, id, companyID)
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.notifications.Delete(ctx, id, companyID)
}
