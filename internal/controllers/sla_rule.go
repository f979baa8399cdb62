package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
	apperrors "ams-portal/pkg/errors"
)

type SlaRuleController struct {
	slaService services.SlaRuleServiceInterface
	logger     *zap.Logger
}

func NewSlaRuleController(slaService services.SlaRuleServiceInterface, logger *zap.Logger) *SlaRuleController {
	return &SlaRuleController{slaService: slaService, logger: logger}
}

func slaScopeFromQuery(ctx echo.Context) (string, int, error) {
	projectID := ctx.QueryParam("project_id")
	if projectID == "" {
		return "", 0, apperrors.NewHttpError(http.StatusBadRequest, "project_id is required", nil)
	}
	weekdayID, err := strconv.Atoi(ctx.QueryParam("weekday_id"))
	if err != nil {
		return "", 0, apperrors.NewHttpError(http.StatusBadRequest, "Invalid weekday_id", err)
	}
	return projectID, weekdayID, nil
}

func (c *SlaRuleController) GetMatrix(ctx echo.Context) error {
	projectID, weekdayID, err := slaScopeFromQuery(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	rows, err := c.slaService.GetMatrix(ctx.Request().Context(), projectID, weekdayID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", rows)
}

func (c *SlaRuleController) SaveMatrix(ctx echo.Context) error {
	var body dto.SaveSlaMatrixDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	if err := c.slaService.SaveMatrix(ctx.Request().Context(), body); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Matrix saved", nil)
}

func (c *SlaRuleController) GetRules(ctx echo.Context) error {
	projectID, weekdayID, err := slaScopeFromQuery(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	rules, err := c.slaService.ListRules(ctx.Request().Context(), projectID, weekdayID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", rules)
}
