package data

import (
	"context"
	"time"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// EventRepositoryInterface defines the calendar event operations
type EventRepositoryInterface interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.CalendarEvent, error)
	List(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id, companyID uuid.UUID) error
}

// EventRepository handles database operations for calendar events
type EventRepository struct {
	db *pg.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pg.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves an event scoped to a company
func (r *EventRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.CalendarEvent, error) {
	event := new(models.CalendarEvent)
	err := r.db.ModelContext(ctx, event).
		Where("id = ? AND company_id = ?", id, companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// List retrieves a company's events, optionally bounded by a date range
func (r *EventRepository) List(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]*models.CalendarEvent, error) {
	var events []*models.CalendarEvent
	q := r.db.ModelContext(ctx, &events).
		Where("company_id = ?", companyID)
	if from != nil {
		q = q.Where("event_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("event_date <= ?", *to)
	}
	err := q.Order("event_date ASC").Select()
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	_, err := r.db.ModelContext(ctx, event).Insert()
	return err
}

// Update updates an existing event
func (r *EventRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	res, err := r.db.ModelContext(ctx, event).
		WherePK().
		Where("company_id = ?", event.CompanyID).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event scoped to a company
func (r *EventRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.CalendarEvent)(nil)).
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
