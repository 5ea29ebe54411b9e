package models

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// EventType categorizes a calendar event and drives its display color
type EventType string

// Event types
const (
	EventTypeEnrollment EventType = "enrollment"
	EventTypeWellness   EventType = "wellness"
	EventTypeDeadline   EventType = "deadline"
	EventTypeMeeting    EventType = "meeting"
	EventTypeHoliday    EventType = "holiday"
	EventTypeOther      EventType = "other"
)

// eventColors maps an event type to its default display color
var eventColors = map[EventType]string{
	EventTypeEnrollment: "#2563eb",
	EventTypeWellness:   "#16a34a",
	EventTypeDeadline:   "#dc2626",
	EventTypeMeeting:    "#9333ea",
	EventTypeHoliday:    "#f59e0b",
	EventTypeOther:      "#6b7280",
}

// ValidEventType reports whether t is a known event type
func ValidEventType(t EventType) bool {
	_, ok := eventColors[t]
	return ok
}

// ColorFor returns the display color for an event type
func ColorFor(t EventType) string {
	if color, ok := eventColors[t]; ok {
		return color
	}
	return eventColors[EventTypeOther]
}

// CalendarEvent represents a company calendar entry
type CalendarEvent struct {
	ID          uuid.UUID `pg:"id,type:uuid,pk"`
	CompanyID   uuid.UUID `pg:"company_id,type:uuid,notnull"`
	Title       string    `pg:"title,notnull"`
	Description string    `pg:"description"`
	EventDate   time.Time `pg:"event_date,notnull"`
	EventType   EventType `pg:"event_type,type:text,notnull,default:'other'"`
	Color       string    `pg:"color"`
	CreatedAt   time.Time `pg:"created_at,notnull,default:now()"`
	UpdatedAt   time.Time `pg:"updated_at,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
}

// BeforeInsert hook is called before inserting a new event
func (e *CalendarEvent) BeforeInsert(_ orm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EventType == "" {
		e.EventType = EventTypeOther
	}
	if e.Color == "" {
		e.Color = ColorFor(e.EventType)
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating an event
func (e *CalendarEvent) BeforeUpdate(_ orm.DB) error {
	if e.Color == "" {
		e.Color = ColorFor(e.EventType)
	}
	e.UpdatedAt = time.Now()
	return nil
}

// TableName returns the name of the table for this model
func (e *CalendarEvent) TableName() string {
	return "calendar_events"
}
