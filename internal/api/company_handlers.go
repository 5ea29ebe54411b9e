package api

import (
	"net/http"

	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// CompanyHandlers serves tenant management, superadmin only
type CompanyHandlers struct {
	companies *services.CompanyService
}

// NewCompanyHandlers creates the company handlers
func NewCompanyHandlers(companies *services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companies: companies}
}

// List handles GET /api/companies
func (h *CompanyHandlers) List(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// Get handles GET /api/companies/:id
func (h *CompanyHandlers) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Create handles POST /api/companies
func (h *CompanyHandlers) Create(c *gin.Context) {
	var input services.CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid company payload"})
		return
	}
	company, err := h.companies.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// Update handles PATCH /api/companies/:id
func (h *CompanyHandlers) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid company payload"})
		return
	}
	company, err := h.companies.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /api/companies/:id
func (h *CompanyHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}
