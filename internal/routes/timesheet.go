package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runTimesheetRouter(secureGroup *echo.Group, ctrl *controllers.TimesheetController) {
	timesheet := secureGroup.Group("/timesheet")
	timesheet.GET("", ctrl.GetEntries)
	timesheet.GET("/export", ctrl.ExportXLSX)
	timesheet.POST("", ctrl.CreateEntry)
	timesheet.PUT("/:id", ctrl.UpdateEntry)
	timesheet.DELETE("/:id", ctrl.DeleteEntry)
}
