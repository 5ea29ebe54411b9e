package api

import (
	"net/http"

	"benefitsportal/internal/middleware"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// NotificationHandlers serves the notification feed
type NotificationHandlers struct {
	notifications *services.NotificationService
	sanitizer     *middleware.Sanitizer
}

// NewNotificationHandlers creates the notification handlers
func NewNotificationHandlers(notifications *services.NotificationService, sanitizer *middleware.Sanitizer) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications, sanitizer: sanitizer}
}

// List handles GET /api/notifications. Users see their own plus global
// entries; admins may pass all=true for the whole company feed.
func (h *NotificationHandlers) List(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	if c.Query("all") == "true" && session.IsAdmin() {
		notifications, err := h.notifications.ListAll(c.Request.Context(), companyID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notifications)
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notifications.ListForUser(c.Request.Context(), companyID, session.UserID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// Create handles POST /api/notifications, admin only
func (h *NotificationHandlers) Create(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var input services.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification payload"})
		return
	}
	input.Title = h.sanitizer.Clean(input.Title)
	input.Body = h.sanitizer.Clean(input.Body)

	notification, err := h.notifications.Create(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// MarkRead handles PATCH /api/notifications/:id
func (h *NotificationHandlers) MarkRead(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	if err := h.notifications.MarkRead(c.Request.Context(), companyID, session.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification read"})
}

// Delete handles DELETE /api/notifications/:id, admin only
func (h *NotificationHandlers) Delete(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
