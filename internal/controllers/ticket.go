package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/services"
	"ams-portal/pkg/api"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/utils"
)

type TicketController struct {
	ticketService services.TicketServiceInterface
	logger        *zap.Logger
}

func NewTicketController(ticketService services.TicketServiceInterface, logger *zap.Logger) *TicketController {
	return &TicketController{ticketService: ticketService, logger: logger}
}

// parseTicketQuery reads the optional ticket filters from the query string.
// Unknown or malformed values are dropped, not rejected; the mandatory
// visibility predicate is applied downstream regardless.
func parseTicketQuery(ctx echo.Context) dto.TicketQueryDTO {
	q := ctx.Request().URL.Query()

	query := dto.TicketQueryDTO{
		Title:          q.Get("title"),
		CategoryID:     q.Get("category_id"),
		StatusID:       q.Get("status_id"),
		PriorityID:     q.Get("priority_id"),
		ProjectID:      q.Get("project_id"),
		CreatedBy:      q.Get("created_by"),
		PartnerID:      q.Get("partner_id"),
		UserTickets:    q.Get("user_tickets"),
		ResourceUserID: q.Get("resource_user_id"),
	}

	if raw := q.Get("external_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			query.ExternalID = &id
		}
	}
	if raw := q.Get("is_private"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			query.IsPrivate = &v
		}
	}
	if raw := q.Get("created_after"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			query.CreatedAfter = &t
		}
	}

	return query
}

func (c *TicketController) GetTickets(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	query := parseTicketQuery(ctx)

	tickets, total, err := c.ticketService.GetTickets(ctx.Request().Context(), query, filter)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Successfully", tickets, total, filter.Page, filter.Limit)
}

func (c *TicketController) FindTicket(ctx echo.Context) error {
	ticket, err := c.ticketService.FindTicket(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", ticket)
}

func (c *TicketController) CreateTicket(ctx echo.Context) error {
	var body dto.CreateTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	created, err := c.ticketService.CreateTicket(ctx.Request().Context(), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Successfully created", created)
}

func (c *TicketController) UpdateTicket(ctx echo.Context) error {
	var body dto.UpdateTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	updated, err := c.ticketService.UpdateTicket(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully updated", updated)
}

func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	if err := c.ticketService.DeleteTicket(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Successfully deleted", nil)
}

func (c *TicketController) AssignResource(ctx echo.Context) error {
	var body dto.AssignResourceDTO
	if err := ctx.Bind(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err))
	}
	if err := ctx.Validate(&body); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Validation failed", err))
	}

	if err := c.ticketService.AssignResource(ctx.Request().Context(), ctx.Param("id"), body); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Resource assigned", nil)
}

func (c *TicketController) UnassignResource(ctx echo.Context) error {
	if err := c.ticketService.UnassignResource(ctx.Request().Context(), ctx.Param("id"), ctx.Param("userId")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Resource unassigned", nil)
}
