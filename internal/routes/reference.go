package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runReferenceRouter(secureGroup *echo.Group, ctrl *controllers.ReferenceController) {
	reference := secureGroup.Group("/reference")
	reference.GET("/form-data", ctrl.GetFormData)
	reference.GET("/priorities", ctrl.GetPriorities)
	reference.GET("/categories", ctrl.GetCategories)
	reference.GET("/statuses", ctrl.GetStatuses)
}
