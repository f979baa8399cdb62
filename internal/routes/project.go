package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runProjectRouter(secureGroup *echo.Group, ctrl *controllers.ProjectController) {
	projects := secureGroup.Group("/projects")
	projects.GET("", ctrl.GetProjects)
	projects.GET("/:id", ctrl.FindProject)
	projects.POST("", ctrl.CreateProject)
	projects.PUT("/:id", ctrl.UpdateProject)
	projects.DELETE("/:id", ctrl.DeactivateProject)
}
