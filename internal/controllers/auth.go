package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
	apperrors "ams-portal/pkg/errors"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var body dto.LoginDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully authenticated", tokens)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var body dto.RefreshDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), body.RefreshToken)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Tokens refreshed", tokens)
}

func (c *AuthController) Me(ctx echo.Context) error {
	me, err := c.authService.Me(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", me)
}
