package api

import (
	"net/http"

	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// SettingsHandlers serves branding and prompt configuration
type SettingsHandlers struct {
	settings *services.SettingsService
}

// NewSettingsHandlers creates the settings handlers
func NewSettingsHandlers(settings *services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settings: settings}
}

// Get handles GET /api/company-settings
func (h *SettingsHandlers) Get(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	settings, err := h.settings.Get(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PATCH /api/company-settings, admin only
func (h *SettingsHandlers) Update(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var input services.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings payload"})
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
