// Package api is the HTTP layer: gin handlers and routing over the domain
// services.
package api

import (
	"errors"
	"net/http"

	"benefitsportal/internal/data"
	"benefitsportal/internal/middleware"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service and data layer errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, data.ErrDuplicateRecord):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, data.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// pathID parses the :id path parameter, writing a 400 on failure
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// companyScope reads the resolved company scope, writing a 500 if the scope
// middleware did not run
func companyScope(c *gin.Context) (uuid.UUID, bool) {
	companyID, ok := middleware.CompanyScopeFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return uuid.Nil, false
	}
	return companyID, true
}
