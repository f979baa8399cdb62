package services

import (
	"context"

	"github.com/google/uuid"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, filter types.Filter) ([]dto.ProjectDTO, uint64, error)
	FindProject(ctx context.Context, id string) (*dto.ProjectDTO, error)
	CreateProject(ctx context.Context, data dto.CreateProjectDTO) (*dto.ProjectDTO, error)
	UpdateProject(ctx context.Context, id string, data dto.UpdateProjectDTO) (*dto.ProjectDTO, error)
	DeactivateProject(ctx context.Context, id string) error
}

type ProjectService struct {
	repo        repositories.ProjectRepositoryInterface
	partnerRepo repositories.PartnerRepositoryInterface
}

func NewProjectService(
	repo repositories.ProjectRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
) ProjectServiceInterface {
	return &ProjectService{repo: repo, partnerRepo: partnerRepo}
}

func (s *ProjectService) toDTO(ctx context.Context, p *entities.Project) *dto.ProjectDTO {
	out := &dto.ProjectDTO{ID: p.ID, Name: p.Name, IsAMS: p.IsAMS, Active: p.Active}
	if p.PartnerID.Valid && p.PartnerID.String != "" {
		if partner, err := s.partnerRepo.FindByID(ctx, p.PartnerID.String); err == nil {
			out.Partner = &dto.ShortPartnerDTO{ID: partner.ID, Name: partner.Name}
		}
	}
	return out
}

func (s *ProjectService) GetProjects(ctx context.Context, filter types.Filter) ([]dto.ProjectDTO, uint64, error) {
	projects, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, *s.toDTO(ctx, p))
	}
	return out, total, nil
}

func (s *ProjectService) FindProject(ctx context.Context, id string) (*dto.ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, project), nil
}

func (s *ProjectService) CreateProject(ctx context.Context, data dto.CreateProjectDTO) (*dto.ProjectDTO, error) {
	if data.PartnerID.Valid && data.PartnerID.String != "" {
		if _, err := s.partnerRepo.FindByID(ctx, data.PartnerID.String); err != nil {
			return nil, apperrors.NewInvalidInputError("unknown partner %q", data.PartnerID.String)
		}
	}

	project := entities.Project{
		ID:        uuid.NewString(),
		Name:      data.Name,
		PartnerID: data.PartnerID,
		IsAMS:     data.IsAMS,
	}
	newID, err := s.repo.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	return s.FindProject(ctx, newID)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, data dto.UpdateProjectDTO) (*dto.ProjectDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if data.Name != "" {
		updated.Name = data.Name
	}
	if data.IsAMS != nil {
		updated.IsAMS = *data.IsAMS
	}
	if data.Active != nil {
		updated.Active = *data.Active
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return s.FindProject(ctx, id)
}

func (s *ProjectService) DeactivateProject(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
