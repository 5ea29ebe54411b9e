package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// NotificationRepositoryInterface defines the notification feed operations
type NotificationRepositoryInterface interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.Notification, error)
	ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error)
	ListAll(ctx context.Context, companyID uuid.UUID) ([]*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	MarkRead(ctx context.Context, id, companyID uuid.UUID) error
	Delete(ctx context.Context, id, companyID uuid.UUID) error
}

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pg.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pg.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetByID retrieves a notification scoped to a company
func (r *NotificationRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.Notification, error) {
	n := new(models.Notification)
	err := r.db.ModelContext(ctx, n).
		Where("id = ? AND company_id = ?", id, companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// ListForUser retrieves notifications visible to a user: addressed to them
// or marked global for the company.
func (r *NotificationRepository) ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	var notifications []*models.Notification
	q := r.db.ModelContext(ctx, &notifications).
		Where("company_id = ?", companyID).
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			return q.Where("user_id = ?", userID).WhereOr("is_global = TRUE"), nil
		})
	if unreadOnly {
		q = q.Where("is_read = FALSE")
	}
	err := q.Order("created_at DESC").Select()
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListAll retrieves every notification for a company (admin view)
func (r *NotificationRepository) ListAll(ctx context.Context, companyID uuid.UUID) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.ModelContext(ctx, &notifications).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	_, err := r.db.ModelContext(ctx, notification).Insert()
	return err
}

// MarkRead flags a notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, companyID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Set("is_read = TRUE").
		Where("id = ? AND company_id = ?", id, companyID).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notification scoped to a company
func (r *NotificationRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
