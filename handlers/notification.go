package handlers

import (
	"errors"
	"net/http"

	"eclinic/models"
	"eclinic/services/notification"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Sender notification.Sender
}

func NewNotificationHandler(sender notification.Sender) *NotificationHandler {
	return &NotificationHandler{Sender: sender}
}

// SendPushHandler delivers a chat push synchronously and reports the provider response.
func (h *NotificationHandler) SendPushHandler(c *gin.Context) {
	var req models.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	response, err := h.Sender.Send(c.Request.Context(), req)
	if errors.Is(err, notification.ErrPushDisabled) {
		utils.JSONError(c, http.StatusServiceUnavailable, "Push notifications are disabled", err.Error())
		return
	}
	if err != nil {
		var invalid notification.InvalidPushError
		if errors.As(err, &invalid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.PushResult{Success: false, Response: err.Error()})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to send notification", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.PushResult{Success: true, Response: response})
}
