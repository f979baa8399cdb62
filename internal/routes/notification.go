package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runNotificationRouter(secureGroup *echo.Group, ctrl *controllers.NotificationController) {
	notifications := secureGroup.Group("/notifications")
	notifications.GET("", ctrl.GetMine)
	notifications.PUT("/:id/read", ctrl.MarkRead)
}
