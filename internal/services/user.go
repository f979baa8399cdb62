package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
	"ams-portal/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id string) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, data dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id string, data dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeactivateUser(ctx context.Context, id string) error
}

type UserService struct {
	userRepo    repositories.UserRepositoryInterface
	partnerRepo repositories.PartnerRepositoryInterface
	logger      *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, partnerRepo: partnerRepo, logger: logger}
}

func (s *UserService) toDTO(ctx context.Context, u *entities.User) *dto.UserDTO {
	out := &dto.UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      int(u.Role),
		IsClient:  u.IsClient,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.PartnerID.Valid && u.PartnerID.String != "" {
		if partner, err := s.partnerRepo.FindByID(ctx, u.PartnerID.String); err == nil {
			out.Partner = &dto.ShortPartnerDTO{ID: partner.ID, Name: partner.Name}
		}
	}
	return out
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, *s.toDTO(ctx, u))
	}
	return out, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, user), nil
}

func (s *UserService) CreateUser(ctx context.Context, data dto.CreateUserDTO) (*dto.UserDTO, error) {
	role := entities.Role(data.Role)
	if !role.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown role %d", data.Role)
	}
	// Client users must belong to a partner; administrative users must not.
	if data.IsClient {
		if !data.PartnerID.Valid || data.PartnerID.String == "" {
			return nil, apperrors.NewInvalidInputError("client users require a partner")
		}
		if _, err := s.partnerRepo.FindByID(ctx, data.PartnerID.String); err != nil {
			return nil, apperrors.NewInvalidInputError("unknown partner %q", data.PartnerID.String)
		}
	}

	hashed, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		ID:        uuid.NewString(),
		Name:      data.Name,
		Email:     data.Email,
		Password:  hashed,
		Role:      role,
		IsClient:  data.IsClient,
		PartnerID: data.PartnerID,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return s.FindUser(ctx, newID)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, data dto.UpdateUserDTO) (*dto.UserDTO, error) {
	current, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if data.Name != "" {
		updated.Name = data.Name
	}
	if data.Email != "" {
		updated.Email = data.Email
	}
	if data.Role != 0 {
		role := entities.Role(data.Role)
		if !role.Valid() {
			return nil, apperrors.NewInvalidInputError("unknown role %d", data.Role)
		}
		updated.Role = role
	}
	if data.IsClient != nil {
		updated.IsClient = *data.IsClient
	}
	if data.PartnerID.Valid {
		if data.PartnerID.String != "" {
			if _, err := s.partnerRepo.FindByID(ctx, data.PartnerID.String); err != nil {
				return nil, apperrors.NewInvalidInputError("unknown partner %q", data.PartnerID.String)
			}
		}
		updated.PartnerID = data.PartnerID
	}
	if data.Active != nil {
		updated.Active = *data.Active
	}
	if updated.IsClient && (!updated.PartnerID.Valid || updated.PartnerID.String == "") {
		return nil, apperrors.NewInvalidInputError("client users require a partner")
	}

	if err := s.userRepo.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return s.FindUser(ctx, id)
}

func (s *UserService) DeactivateUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
