package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runTicketRouter(secureGroup *echo.Group, ctrl *controllers.TicketController) {
	tickets := secureGroup.Group("/tickets")
	tickets.GET("", ctrl.GetTickets)
	tickets.GET("/:id", ctrl.FindTicket)
	tickets.POST("", ctrl.CreateTicket)
	tickets.PUT("/:id", ctrl.UpdateTicket)
	tickets.DELETE("/:id", ctrl.DeleteTicket)
	tickets.POST("/:id/resources", ctrl.AssignResource)
	tickets.DELETE("/:id/resources/:userId", ctrl.UnassignResource)
}
