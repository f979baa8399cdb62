package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/services"
	"ams-portal/pkg/api"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) GetMine(ctx echo.Context) error {
	unreadOnly := ctx.QueryParam("unread") == "true"

	notifications, err := c.notificationService.ListMine(ctx.Request().Context(), unreadOnly)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", notifications)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	if err := c.notificationService.MarkRead(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Marked as read", nil)
}
