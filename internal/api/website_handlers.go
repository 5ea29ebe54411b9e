package api

import (
	"net/http"

	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// WebsiteHandlers serves AI-generated marketing copy for the portal
type WebsiteHandlers struct {
	website   *services.WebsiteService
	documents *services.DocumentService
	generator services.CopyGenerator
}

// NewWebsiteHandlers creates the website content handlers
func NewWebsiteHandlers(website *services.WebsiteService, documents *services.DocumentService, generator services.CopyGenerator) *WebsiteHandlers {
	return &WebsiteHandlers{website: website, documents: documents, generator: generator}
}

// Content handles GET /api/website-content
func (h *WebsiteHandlers) Content(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	copy, err := h.website.Generate(c.Request.Context(), companyID, c.Query("prompt"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Content generation failed"})
		return
	}
	c.JSON(http.StatusOK, copy)
}

// BenefitDetails handles GET /api/benefit-details/:id, generating marketing
// copy grounded in one document
func (h *WebsiteHandlers) BenefitDetails(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !doc.HasUsableContent() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Document content is not available yet"})
		return
	}

	copy, err := h.generator.GenerateWebsiteCopy(c.Request.Context(),
		"Describe this employee benefit for the company benefits site", *doc.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Content generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc.Title, "content": copy})
}
