package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/utils"
)

type PartnerController struct {
	partnerService services.PartnerServiceInterface
	logger         *zap.Logger
}

func NewPartnerController(partnerService services.PartnerServiceInterface, logger *zap.Logger) *PartnerController {
	return &PartnerController{partnerService: partnerService, logger: logger}
}

func (c *PartnerController) GetPartners(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	partners, total, err := c.partnerService.GetPartners(ctx.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Successfully", partners, total, filter.Page, filter.Limit)
}

func (c *PartnerController) FindPartner(ctx echo.Context) error {
	partner, err := c.partnerService.FindPartner(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", partner)
}

func (c *PartnerController) CreatePartner(ctx echo.Context) error {
	var body dto.CreatePartnerDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	created, err := c.partnerService.CreatePartner(ctx.Request().Context(), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Successfully created", created)
}

func (c *PartnerController) UpdatePartner(ctx echo.Context) error {
	var body dto.UpdatePartnerDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	updated, err := c.partnerService.UpdatePartner(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully updated", updated)
}

func (c *PartnerController) DeactivatePartner(ctx echo.Context) error {
	if err := c.partnerService.DeactivatePartner(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Successfully deactivated", nil)
}
