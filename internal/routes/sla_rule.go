package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runSlaRuleRouter(secureGroup *echo.Group, ctrl *controllers.SlaRuleController) {
	sla := secureGroup.Group("/sla")
	sla.GET("/matrix", ctrl.GetMatrix)
	sla.POST("/matrix", ctrl.SaveMatrix)
	sla.GET("/rules", ctrl.GetRules)
}
