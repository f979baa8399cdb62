package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	"ams-portal/pkg/utils"
)

type NotificationServiceInterface interface {
	NotifyUser(ctx context.Context, userID, title, message string)
	NotifyTicketResources(ctx context.Context, ticketID, title, message string)
	ListMine(ctx context.Context, unreadOnly bool) ([]dto.NotificationDTO, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationService writes in-app notifications. Delivery is best effort:
// a failed write is logged and never fails the business operation that
// triggered it.
type NotificationService struct {
	repo         repositories.NotificationRepositoryInterface
	resourceRepo repositories.TicketResourceRepositoryInterface
	logger       *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	resourceRepo repositories.TicketResourceRepositoryInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, resourceRepo: resourceRepo, logger: logger}
}

func (s *NotificationService) NotifyUser(ctx context.Context, userID, title, message string) {
	n := entities.Notification{UserID: userID, Title: title, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to write notification", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *NotificationService) NotifyTicketResources(ctx context.Context, ticketID, title, message string) {
	resources, err := s.resourceRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Warn("failed to list ticket resources for notification",
			zap.String("ticketId", ticketID), zap.Error(err))
		return
	}
	for _, res := range resources {
		s.NotifyUser(ctx, res.UserID, title, message)
	}
}

func (s *NotificationService) ListMine(ctx context.Context, unreadOnly bool) ([]dto.NotificationDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, dto.NotificationDTO{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, userID)
}
