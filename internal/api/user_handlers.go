package api

import (
	"net/http"

	"benefitsportal/internal/data"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandlers serves per-company user management, admin only
type UserHandlers struct {
	users    *services.UserService
	userRepo data.UserRepositoryInterface
}

// NewUserHandlers creates the user handlers
func NewUserHandlers(users *services.UserService, userRepo data.UserRepositoryInterface) *UserHandlers {
	return &UserHandlers{users: users, userRepo: userRepo}
}

// List handles GET /api/users
func (h *UserHandlers) List(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	users, err := h.users.List(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user))
	}
	c.JSON(http.StatusOK, views)
}

// Get handles GET /api/users/:id
func (h *UserHandlers) Get(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

// Create handles POST /api/users
func (h *UserHandlers) Create(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	actor, ok := scopedUser(c, h.userRepo)
	if !ok {
		return
	}
	var input services.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload"})
		return
	}
	user, err := h.users.Create(c.Request.Context(), companyID, actor, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userView(user))
}

// Update handles PATCH /api/users/:id
func (h *UserHandlers) Update(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := scopedUser(c, h.userRepo)
	if !ok {
		return
	}
	var input services.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload"})
		return
	}
	user, err := h.users.Update(c.Request.Context(), companyID, id, actor, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

// Delete handles DELETE /api/users/:id
func (h *UserHandlers) Delete(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := scopedUser(c, h.userRepo)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), companyID, id, actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
