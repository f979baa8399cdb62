package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
	"ams-portal/pkg/utils"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, query dto.TicketQueryDTO, pagination types.Filter) ([]dto.TicketDTO, uint64, error)
	FindTicket(ctx context.Context, id string) (*dto.TicketDTO, error)
	CreateTicket(ctx context.Context, data dto.CreateTicketDTO) (*dto.TicketDTO, error)
	UpdateTicket(ctx context.Context, id string, data dto.UpdateTicketDTO) (*dto.TicketDTO, error)
	DeleteTicket(ctx context.Context, id string) error
	AssignResource(ctx context.Context, ticketID string, data dto.AssignResourceDTO) error
	UnassignResource(ctx context.Context, ticketID, userID string) error
}

type TicketService struct {
	ticketRepo   repositories.TicketRepositoryInterface
	resourceRepo repositories.TicketResourceRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	refRepo      repositories.ReferenceRepositoryInterface
	historyRepo  repositories.TicketHistoryRepositoryInterface
	notifier     NotificationServiceInterface
	logger       *zap.Logger
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	resourceRepo repositories.TicketResourceRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	refRepo repositories.ReferenceRepositoryInterface,
	historyRepo repositories.TicketHistoryRepositoryInterface,
	notifier NotificationServiceInterface,
	logger *zap.Logger,
) TicketServiceInterface {
	return &TicketService{
		ticketRepo:   ticketRepo,
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
		refRepo:      refRepo,
		historyRepo:  historyRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// buildVisibilityFilter computes the mandatory predicate for the given user.
// Client profiles are pinned to their own partner; functional-adm users are
// pinned to tickets they are allocated on. A missing affiliation forces an
// empty result set rather than erroring or widening.
func (s *TicketService) buildVisibilityFilter(ctx context.Context, user *entities.User) (entities.TicketFilter, error) {
	var filter entities.TicketFilter

	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminClient, entities.ProfileManagerClient, entities.ProfileFunctionalClient:
		if !user.PartnerID.Valid || user.PartnerID.String == "" {
			filter.ForceEmpty = true
			return filter, nil
		}
		filter.PartnerID = user.PartnerID.String

	case entities.ProfileFunctionalAdm:
		ticketIDs, err := s.resourceRepo.TicketIDsByUser(ctx, user.ID)
		if err != nil {
			return filter, fmt.Errorf("resolving allocated tickets: %w", err)
		}
		if len(ticketIDs) == 0 {
			filter.ForceEmpty = true
			return filter, nil
		}
		filter.TicketIDs = ticketIDs

	case entities.ProfileAdminAdm, entities.ProfileManagerAdm, entities.ProfileUnknown:
		// No mandatory restriction.
	}

	return filter, nil
}

// applyOptionalFilters layers caller-supplied predicates on top of the
// mandatory one. Everything composes conjunctively; filters able to widen
// visibility (partner_id, user_tickets, resource_user_id) are honored only
// for administrative-org admin/manager profiles and silently ignored
// otherwise.
func (s *TicketService) applyOptionalFilters(ctx context.Context, filter *entities.TicketFilter, query dto.TicketQueryDTO, profile entities.Profile) error {
	filter.ExternalID = query.ExternalID
	filter.TitleSearch = query.Title
	filter.CategoryID = query.CategoryID
	filter.StatusID = query.StatusID
	filter.PriorityID = query.PriorityID
	filter.ProjectID = query.ProjectID
	filter.CreatedBy = query.CreatedBy
	filter.IsPrivate = query.IsPrivate
	filter.CreatedAfter = query.CreatedAfter

	adminSide := profile == entities.ProfileAdminAdm || profile == entities.ProfileManagerAdm

	if query.PartnerID != "" && adminSide {
		filter.PartnerID = query.PartnerID
	}

	for _, resourceUserID := range []string{query.UserTickets, query.ResourceUserID} {
		if resourceUserID == "" || !adminSide {
			continue
		}
		ticketIDs, err := s.resourceRepo.TicketIDsByUser(ctx, resourceUserID)
		if err != nil {
			return fmt.Errorf("resolving tickets for requested resource user: %w", err)
		}
		if len(ticketIDs) == 0 {
			filter.ForceEmpty = true
			return nil
		}
		if filter.TicketIDs == nil {
			filter.TicketIDs = ticketIDs
		} else {
			filter.TicketIDs = intersect(filter.TicketIDs, ticketIDs)
			if len(filter.TicketIDs) == 0 {
				filter.ForceEmpty = true
				return nil
			}
		}
	}

	return nil
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	out := make([]string, 0)
	for _, v := range b {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *TicketService) actor(ctx context.Context) (*entities.User, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *TicketService) GetTickets(ctx context.Context, query dto.TicketQueryDTO, pagination types.Filter) ([]dto.TicketDTO, uint64, error) {
	user, err := s.actor(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter, err := s.buildVisibilityFilter(ctx, user)
	if err != nil {
		return nil, 0, err
	}
	if !filter.ForceEmpty {
		if err := s.applyOptionalFilters(ctx, &filter, query, entities.DeriveProfile(user)); err != nil {
			return nil, 0, err
		}
	}

	return s.ticketRepo.List(ctx, filter, pagination)
}

// FindTicket applies the same visibility rules as the listing: a ticket
// outside the caller's mandatory predicate reads as not found.
func (s *TicketService) FindTicket(ctx context.Context, id string) (*dto.TicketDTO, error) {
	user, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminClient, entities.ProfileManagerClient, entities.ProfileFunctionalClient:
		if !user.PartnerID.Valid || ticket.Partner.ID != user.PartnerID.String {
			return nil, apperrors.ErrNotFound
		}
	case entities.ProfileFunctionalAdm:
		ticketIDs, err := s.resourceRepo.TicketIDsByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		allocated := false
		for _, allocatedID := range ticketIDs {
			if allocatedID == id {
				allocated = true
				break
			}
		}
		if !allocated {
			return nil, apperrors.ErrNotFound
		}
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm, entities.ProfileUnknown:
	}

	return ticket, nil
}

func (s *TicketService) CreateTicket(ctx context.Context, data dto.CreateTicketDTO) (*dto.TicketDTO, error) {
	user, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	partnerID := data.PartnerID
	// Client users can only open tickets against their own partner.
	if entities.DeriveProfile(user).IsClient() {
		if !user.PartnerID.Valid || user.PartnerID.String == "" {
			return nil, apperrors.ErrForbidden
		}
		partnerID = user.PartnerID.String
	}

	defaultStatus, err := s.refRepo.FindDefaultStatus(ctx)
	if err != nil {
		s.logger.Error("default ticket status is not configured", zap.Error(err))
		return nil, fmt.Errorf("configuration error: no default ticket status: %w", err)
	}

	ticket := entities.Ticket{
		ID:          uuid.NewString(),
		Title:       data.Title,
		Description: data.Description,
		PartnerID:   partnerID,
		ProjectID:   data.ProjectID,
		CategoryID:  data.CategoryID,
		TypeID:      data.TypeID,
		StatusID:    defaultStatus.ID,
		PriorityID:  data.PriorityID,
		CreatedBy:   user.ID,
		IsPrivate:   data.IsPrivate,
	}

	newID, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		s.logger.Error("failed to create ticket", zap.Error(err))
		return nil, err
	}

	return s.ticketRepo.FindByID(ctx, newID)
}

func (s *TicketService) UpdateTicket(ctx context.Context, id string, data dto.UpdateTicketDTO) (*dto.TicketDTO, error) {
	user, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.FindTicket(ctx, id); err != nil {
		return nil, err
	}

	current, err := s.ticketRepo.FindEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if data.Title != "" {
		updated.Title = data.Title
	}
	if data.Description != "" {
		updated.Description = data.Description
	}
	if data.CategoryID != "" {
		updated.CategoryID = data.CategoryID
	}
	if data.PriorityID != "" {
		updated.PriorityID = data.PriorityID
	}
	if data.IsPrivate != nil {
		updated.IsPrivate = *data.IsPrivate
	}
	if data.StatusID != "" {
		if _, err := s.refRepo.FindStatusByID(ctx, data.StatusID); err != nil {
			return nil, apperrors.NewInvalidInputError("unknown ticket status %q", data.StatusID)
		}
		updated.StatusID = data.StatusID
	}

	if err := s.ticketRepo.Update(ctx, id, updated); err != nil {
		return nil, err
	}

	if data.StatusID != "" && data.StatusID != current.StatusID {
		history := entities.TicketHistory{
			TicketID:     id,
			UserID:       user.ID,
			FromStatusID: current.StatusID,
			ToStatusID:   data.StatusID,
			Note:         data.StatusNote,
		}
		if err := s.historyRepo.Create(ctx, history); err != nil {
			s.logger.Error("failed to record status transition", zap.Error(err), zap.String("ticketId", id))
			return nil, err
		}
		s.notifier.NotifyTicketResources(ctx, id, "Ticket status changed",
			fmt.Sprintf("Ticket %s moved to a new status", current.Title))
	}

	return s.ticketRepo.FindByID(ctx, id)
}

func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	user, err := s.actor(ctx)
	if err != nil {
		return err
	}
	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm:
	default:
		return apperrors.ErrForbidden
	}
	return s.ticketRepo.SoftDelete(ctx, id)
}

func (s *TicketService) AssignResource(ctx context.Context, ticketID string, data dto.AssignResourceDTO) error {
	user, err := s.actor(ctx)
	if err != nil {
		return err
	}
	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm:
	default:
		return apperrors.ErrForbidden
	}

	if _, err := s.userRepo.FindByID(ctx, data.UserID); err != nil {
		return apperrors.NewInvalidInputError("unknown user %q", data.UserID)
	}
	if _, err := s.ticketRepo.FindEntity(ctx, ticketID); err != nil {
		return err
	}

	resource := entities.TicketResource{
		TicketID: ticketID,
		UserID:   data.UserID,
		IsMain:   data.IsMain,
	}
	if err := s.resourceRepo.Assign(ctx, resource); err != nil {
		return err
	}

	s.notifier.NotifyUser(ctx, data.UserID, "Ticket assigned to you",
		fmt.Sprintf("You were allocated on ticket %s", ticketID))
	return nil
}

func (s *TicketService) UnassignResource(ctx context.Context, ticketID, userID string) error {
	user, err := s.actor(ctx)
	if err != nil {
		return err
	}
	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm:
	default:
		return apperrors.ErrForbidden
	}
	return s.resourceRepo.Unassign(ctx, ticketID, userID)
}
