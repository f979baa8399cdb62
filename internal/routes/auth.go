package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, ctrl *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.Refresh)

	secureGroup.GET("/auth/me", ctrl.Me)
}
