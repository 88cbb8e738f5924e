package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/repository"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepository
}

func NewNotificationHandler(notifications *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications, newest first
// @Summary      List notifications
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Notification
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.GetByUserID(c.Request.Context(), caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead flips one of the caller's notifications to read
// @Summary      Mark notification read
// @Tags         Notifications
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, caller.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.Status(http.StatusNoContent)
}
