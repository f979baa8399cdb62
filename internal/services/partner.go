package services

import (
	"context"

	"github.com/google/uuid"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	"ams-portal/pkg/types"
)

type PartnerServiceInterface interface {
	GetPartners(ctx context.Context, filter types.Filter) ([]dto.PartnerDTO, uint64, error)
	FindPartner(ctx context.Context, id string) (*dto.PartnerDTO, error)
	CreatePartner(ctx context.Context, data dto.CreatePartnerDTO) (*dto.PartnerDTO, error)
	UpdatePartner(ctx context.Context, id string, data dto.UpdatePartnerDTO) (*dto.PartnerDTO, error)
	DeactivatePartner(ctx context.Context, id string) error
}

type PartnerService struct {
	repo repositories.PartnerRepositoryInterface
}

func NewPartnerService(repo repositories.PartnerRepositoryInterface) PartnerServiceInterface {
	return &PartnerService{repo: repo}
}

func toPartnerDTO(p *entities.Partner) *dto.PartnerDTO {
	return &dto.PartnerDTO{ID: p.ID, Name: p.Name, TaxID: p.TaxID, Active: p.Active}
}

func (s *PartnerService) GetPartners(ctx context.Context, filter types.Filter) ([]dto.PartnerDTO, uint64, error) {
	partners, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PartnerDTO, 0, len(partners))
	for _, p := range partners {
		out = append(out, *toPartnerDTO(p))
	}
	return out, total, nil
}

func (s *PartnerService) FindPartner(ctx context.Context, id string) (*dto.PartnerDTO, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartnerDTO(partner), nil
}

func (s *PartnerService) CreatePartner(ctx context.Context, data dto.CreatePartnerDTO) (*dto.PartnerDTO, error) {
	partner := entities.Partner{
		ID:    uuid.NewString(),
		Name:  data.Name,
		TaxID: data.TaxID,
	}
	newID, err := s.repo.Create(ctx, partner)
	if err != nil {
		return nil, err
	}
	return s.FindPartner(ctx, newID)
}

func (s *PartnerService) UpdatePartner(ctx context.Context, id string, data dto.UpdatePartnerDTO) (*dto.PartnerDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if data.Name != "" {
		updated.Name = data.Name
	}
	if data.TaxID != "" {
		updated.TaxID = data.TaxID
	}
	if data.Active != nil {
		updated.Active = *data.Active
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return s.FindPartner(ctx, id)
}

func (s *PartnerService) DeactivatePartner(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
