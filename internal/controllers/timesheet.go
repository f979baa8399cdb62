package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/utils"
)

type TimesheetController struct {
	timesheetService services.TimesheetServiceInterface
	logger           *zap.Logger
}

func NewTimesheetController(timesheetService services.TimesheetServiceInterface, logger *zap.Logger) *TimesheetController {
	return &TimesheetController{timesheetService: timesheetService, logger: logger}
}

func parseDateBounds(ctx echo.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := ctx.QueryParam("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, apperrors.NewHttpError(http.StatusBadRequest, "Invalid from date, want YYYY-MM-DD", err)
		}
		from = &t
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, apperrors.NewHttpError(http.StatusBadRequest, "Invalid to date, want YYYY-MM-DD", err)
		}
		to = &t
	}
	return from, to, nil
}

func (c *TimesheetController) GetEntries(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	from, to, err := parseDateBounds(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	entries, total, err := c.timesheetService.GetEntries(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Successfully", entries, total, filter.Page, filter.Limit)
}

func (c *TimesheetController) CreateEntry(ctx echo.Context) error {
	var body dto.CreateTimesheetEntryDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	created, err := c.timesheetService.CreateEntry(ctx.Request().Context(), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Successfully created", created)
}

func (c *TimesheetController) UpdateEntry(ctx echo.Context) error {
	var body dto.UpdateTimesheetEntryDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	updated, err := c.timesheetService.UpdateEntry(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully updated", updated)
}

func (c *TimesheetController) DeleteEntry(ctx echo.Context) error {
	if err := c.timesheetService.DeleteEntry(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Successfully deleted", nil)
}

func (c *TimesheetController) ExportXLSX(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	from, to, err := parseDateBounds(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	f, err := c.timesheetService.ExportXLSX(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	fileName := fmt.Sprintf("timesheet_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
