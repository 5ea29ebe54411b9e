package api

import (
	"net/http"
	"time"

	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// EventHandlers serves the benefits calendar
type EventHandlers struct {
	events *services.EventService
}

// NewEventHandlers creates the event handlers
func NewEventHandlers(events *services.EventService) *EventHandlers {
	return &EventHandlers{events: events}
}

// List handles GET /api/events with optional from/to bounds
func (h *EventHandlers) List(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	events, err := h.events.List(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create handles POST /api/events, admin only
func (h *EventHandlers) Create(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event payload"})
		return
	}
	event, err := h.events.Create(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update handles PATCH /api/events/:id, admin only
func (h *EventHandlers) Update(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event payload"})
		return
	}
	event, err := h.events.Update(c.Request.Context(), companyID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /api/events/:id, admin only
func (h *EventHandlers) Delete(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse("2006-01-02", raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name + " date"})
			return nil, false
		}
	}
	return &t, true
}
