package routes

import (
	"github.com/labstack/echo/v4"

	"ams-portal/internal/controllers"
)

func runPartnerRouter(secureGroup *echo.Group, ctrl *controllers.PartnerController) {
	partners := secureGroup.Group("/partners")
	partners.GET("", ctrl.GetPartners)
	partners.GET("/:id", ctrl.FindPartner)
	partners.POST("", ctrl.CreatePartner)
	partners.PUT("/:id", ctrl.UpdatePartner)
	partners.DELETE("/:id", ctrl.DeactivatePartner)
}
