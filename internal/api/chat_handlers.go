package api

import (
	"net/http"
	"strconv"

	"benefitsportal/internal/middleware"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// ChatHandlers serves the benefits chat
type ChatHandlers struct {
	chat      *services.ChatService
	sanitizer *middleware.Sanitizer
}

// NewChatHandlers creates the chat handlers
func NewChatHandlers(chat *services.ChatService, sanitizer *middleware.Sanitizer) *ChatHandlers {
	return &ChatHandlers{chat: chat, sanitizer: sanitizer}
}

// History handles GET /api/chat
func (h *ChatHandlers) History(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := h.chat.History(c.Request.Context(), companyID, session.UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send handles POST /api/chat
func (h *ChatHandlers) Send(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), companyID, session.UserID, h.sanitizer.Clean(req.Message))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
