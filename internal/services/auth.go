package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/service"
	"ams-portal/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Me(ctx context.Context) (*dto.AuthenticatedUserDTO, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	jwt      service.JWTService
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwt service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwt: jwt, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, data.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwt.GenerateTokens(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.Error(err))
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.ErrInvalidToken
	}

	access, refresh, err := s.jwt.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.AuthenticatedUserDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &dto.AuthenticatedUserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     int(user.Role),
		IsClient: user.IsClient,
		Profile:  entities.DeriveProfile(user).String(),
	}
	if user.PartnerID.Valid {
		out.PartnerID = &user.PartnerID.String
	}
	return out, nil
}
