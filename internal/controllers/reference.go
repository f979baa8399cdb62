package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
)

type ReferenceController struct {
	refService services.ReferenceServiceInterface
	logger     *zap.Logger
}

func NewReferenceController(refService services.ReferenceServiceInterface, logger *zap.Logger) *ReferenceController {
	return &ReferenceController{refService: refService, logger: logger}
}

func (c *ReferenceController) GetFormData(ctx echo.Context) error {
	form, err := c.refService.FormData(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", form)
}

func (c *ReferenceController) GetPriorities(ctx echo.Context) error {
	priorities, err := c.refService.Priorities(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	out := make([]dto.ReferenceItemDTO, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, dto.ReferenceItemDTO{ID: p.ID, Name: p.Name})
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", out)
}

func (c *ReferenceController) GetCategories(ctx echo.Context) error {
	categories, err := c.refService.AMSCategories(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	out := make([]dto.ReferenceItemDTO, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.ReferenceItemDTO{ID: cat.ID, Name: cat.Name})
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", out)
}

func (c *ReferenceController) GetStatuses(ctx echo.Context) error {
	statuses, err := c.refService.Statuses(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	out := make([]dto.ReferenceItemDTO, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, dto.ReferenceItemDTO{ID: s.ID, Name: s.Name})
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", out)
}
