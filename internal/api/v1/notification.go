package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// SendNotification godoc
// @Summary Send push notifications to rider devices
// @Description Reports per-token delivery outcomes
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body dto.SendNotificationRequest true "Notification payload"
// @Success 200 {object} dto.SendNotificationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /notifications [post]
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.notificationService.SendNotification(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to send notification", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
