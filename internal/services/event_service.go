package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
)

// EventInput carries the writable calendar event fields
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	EventType   string    `json:"eventType"`
	Color       string    `json:"color"`
}

// EventService manages the benefits calendar
type EventService struct {
	events data.EventRepositoryInterface
	logger *observability.Logger
}

// NewEventService creates the event service
func NewEventService(events data.EventRepositoryInterface, logger *observability.Logger) *EventService {
	return &EventService{events: events, logger: logger}
}

// List returns events, optionally bounded to a date window
func (s *EventService) List(ctx context.Context, companyID uuid.UUID, from, to *time.Time) ([]*models.CalendarEvent, error) {
	return s.events.List(ctx, companyID, from, to)
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.CalendarEvent, error) {
	return s.events.GetByID(ctx, id, companyID)
}

// Create adds a calendar event
func (s *EventService) Create(ctx context.Context, companyID uuid.UUID, input EventInput) (*models.CalendarEvent, error) {
	event, err := buildEvent(companyID, input)
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update modifies a calendar event
func (s *EventService) Update(ctx context.Context, companyID, id uuid.UUID, input EventInput) (*models.CalendarEvent, error) {
	event, err := s.events.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	updated, err := buildEvent(companyID, input)
	if err != nil {
		return nil, err
	}

	event.Title = updated.Title
	event.Description = updated.Description
	event.EventDate = updated.EventDate
	event.EventType = updated.EventType
	event.Color = updated.Color

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes a calendar event
func (s *EventService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.events.Delete(ctx, id, companyID)
}

func buildEvent(companyID uuid.UUID, input EventInput) (*models.CalendarEvent, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrValidation)
	}
	if input.EventDate.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", ErrValidation)
	}

	eventType := models.EventType(input.EventType)
	if input.EventType == "" {
		eventType = models.EventTypeOther
	}
	if !models.ValidEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, input.EventType)
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.ColorFor(eventType)
	}

	return &models.CalendarEvent{
		CompanyID:   companyID,
		Title:       title,
		Description: input.Description,
		EventDate:   input.EventDate,
		EventType:   eventType,
		Color:       color,
	}, nil
}
