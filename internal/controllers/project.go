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

type ProjectController struct {
	projectService services.ProjectServiceInterface
	logger         *zap.Logger
}

func NewProjectController(projectService services.ProjectServiceInterface, logger *zap.Logger) *ProjectController {
	return &ProjectController{projectService: projectService, logger: logger}
}

func (c *ProjectController) GetProjects(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	projects, total, err := c.projectService.GetProjects(ctx.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Successfully", projects, total, filter.Page, filter.Limit)
}

func (c *ProjectController) FindProject(ctx echo.Context) error {
	project, err := c.projectService.FindProject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", project)
}

func (c *ProjectController) CreateProject(ctx echo.Context) error {
	var body dto.CreateProjectDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	created, err := c.projectService.CreateProject(ctx.Request().Context(), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Successfully created", created)
}

func (c *ProjectController) UpdateProject(ctx echo.Context) error {
	var body dto.UpdateProjectDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	updated, err := c.projectService.UpdateProject(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully updated", updated)
}

func (c *ProjectController) DeactivateProject(ctx echo.Context) error {
	if err := c.projectService.DeactivateProject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Successfully deactivated", nil)
}
