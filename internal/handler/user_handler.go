package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planboard/internal/model"
	"planboard/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type UserCreateRequest struct {
	Name   string  `json:"name" binding:"required,min=2"`
	Email  string  `json:"email" binding:"required,email"`
	Role   string  `json:"role" binding:"required"`
	TeamID *string `json:"team_id" binding:"omitempty,uuid"`
}

type UserUpdateRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Password  *string `json:"password" binding:"omitempty,min=6"`

	NotifyOnAssignment    *bool `json:"notify_on_assignment"`
	NotifyOnComment       *bool `json:"notify_on_comment"`
	NotifyOnStatusChange  *bool `json:"notify_on_status_change"`
	NotifyOnDueDateChange *bool `json:"notify_on_due_date_change"`
}

type GuestInviteRequest struct {
	Name      string `json:"name" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
	ProjectID string `json:"project_id" binding:"required,uuid"`
}

// Create registers a user; an invitation with a temporary credential
// goes out of band
// @Summary      Create user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body UserCreateRequest true "User"
// @Success      201 {object} view.User
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), caller, service.UserCreateFields{
		Name:   req.Name,
		Email:  req.Email,
		Role:   model.Role(req.Role),
		TeamID: parseOptionalUUID(req.TeamID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update edits a user record
// @Summary      Update user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        user body UserUpdateRequest true "Fields"
// @Success      200 {object} view.User
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), caller, userID, service.UserUpdateFields{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,

		NotifyOnAssignment:    req.NotifyOnAssignment,
		NotifyOnComment:       req.NotifyOnComment,
		NotifyOnStatusChange:  req.NotifyOnStatusChange,
		NotifyOnDueDateChange: req.NotifyOnDueDateChange,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete disables a user (guests are removed outright)
// @Summary      Delete user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} view.User
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.users.Delete(c.Request.Context(), caller, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// InviteGuest creates a project-scoped guest account
// @Summary      Invite guest
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        guest body GuestInviteRequest true "Guest"
// @Success      201 {object} view.User
// @Router       /guests [post]
func (h *UserHandler) InviteGuest(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req GuestInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	guest, err := h.users.InviteGuest(c.Request.Context(), caller, req.Name, req.Email, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest)
}

// RevokeGuest removes a guest account
// @Summary      Revoke guest
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Guest ID"
// @Success      204
// @Router       /guests/{id} [delete]
func (h *UserHandler) RevokeGuest(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guest ID format"})
		return
	}

	if err := h.users.RevokeGuest(c.Request.Context(), caller, guestID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
