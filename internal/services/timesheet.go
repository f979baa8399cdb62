package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
	"ams-portal/pkg/utils"
)

const dateLayout = "2006-01-02"

type TimesheetServiceInterface interface {
	GetEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.TimesheetEntryDTO, uint64, error)
	CreateEntry(ctx context.Context, data dto.CreateTimesheetEntryDTO) (*dto.TimesheetEntryDTO, error)
	UpdateEntry(ctx context.Context, id string, data dto.UpdateTimesheetEntryDTO) (*dto.TimesheetEntryDTO, error)
	DeleteEntry(ctx context.Context, id string) error
	ExportXLSX(ctx context.Context, filter types.Filter, from, to *time.Time) (*excelize.File, error)
}

type TimesheetService struct {
	repo        repositories.TimesheetRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	projectRepo repositories.ProjectRepositoryInterface
	logger      *zap.Logger
}

func NewTimesheetService(
	repo repositories.TimesheetRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	logger *zap.Logger,
) TimesheetServiceInterface {
	return &TimesheetService{repo: repo, userRepo: userRepo, projectRepo: projectRepo, logger: logger}
}

func (s *TimesheetService) toDTO(ctx context.Context, e *entities.TimesheetEntry) *dto.TimesheetEntryDTO {
	out := &dto.TimesheetEntryDTO{
		ID:       e.ID,
		TicketID: e.TicketID,
		Date:     e.Date.Format(dateLayout),
		Hours:    e.Hours,
		Note:     e.Note,
	}
	if user, err := s.userRepo.FindByID(ctx, e.UserID); err == nil {
		out.User = dto.ShortUserDTO{ID: user.ID, Name: user.Name}
	} else {
		out.User = dto.ShortUserDTO{ID: e.UserID}
	}
	if project, err := s.projectRepo.FindByID(ctx, e.ProjectID); err == nil {
		out.Project = dto.ShortProjectDTO{ID: project.ID, Name: project.Name}
	} else {
		out.Project = dto.ShortProjectDTO{ID: e.ProjectID}
	}
	return out
}

// restrictToActor pins the user_id filter for everyone who is not an
// administrative admin or manager; other callers see only their own hours.
func (s *TimesheetService) restrictToActor(ctx context.Context, filter *types.Filter) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm:
		return nil
	default:
		if filter.Filter == nil {
			filter.Filter = make(map[string]interface{})
		}
		filter.Filter["user_id"] = userID
		return nil
	}
}

func (s *TimesheetService) GetEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.TimesheetEntryDTO, uint64, error) {
	if err := s.restrictToActor(ctx, &filter); err != nil {
		return nil, 0, err
	}
	entries, total, err := s.repo.GetAll(ctx, filter, from, to)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TimesheetEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, *s.toDTO(ctx, e))
	}
	return out, total, nil
}

func (s *TimesheetService) CreateEntry(ctx context.Context, data dto.CreateTimesheetEntryDTO) (*dto.TimesheetEntryDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, data.Date)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("invalid date %q, want YYYY-MM-DD", data.Date)
	}
	if _, err := s.projectRepo.FindByID(ctx, data.ProjectID); err != nil {
		return nil, apperrors.NewInvalidInputError("unknown project %q", data.ProjectID)
	}

	entry := entities.TimesheetEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: data.ProjectID,
		TicketID:  data.TicketID,
		Date:      date,
		Hours:     data.Hours,
		Note:      data.Note,
	}
	newID, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("failed to create timesheet entry", zap.Error(err))
		return nil, err
	}
	created, err := s.repo.FindByID(ctx, newID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, created), nil
}

// ownEntry loads the entry and checks the actor may touch it: owners
// always can, administrative admins and managers can for anyone.
func (s *TimesheetService) ownEntry(ctx context.Context, id string) (*entities.TimesheetEntry, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID == userID {
		return entry, nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch entities.DeriveProfile(user) {
	case entities.ProfileAdminAdm, entities.ProfileManagerAdm:
		return entry, nil
	default:
		return nil, apperrors.ErrForbidden
	}
}

func (s *TimesheetService) UpdateEntry(ctx context.Context, id string, data dto.UpdateTimesheetEntryDTO) (*dto.TimesheetEntryDTO, error) {
	current, err := s.ownEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if data.Date != "" {
		date, err := time.Parse(dateLayout, data.Date)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid date %q, want YYYY-MM-DD", data.Date)
		}
		updated.Date = date
	}
	if data.Hours > 0 {
		updated.Hours = data.Hours
	}
	if data.Note != "" {
		updated.Note = data.Note
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	refreshed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, refreshed), nil
}

func (s *TimesheetService) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.ownEntry(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ExportXLSX renders the filtered entries as a spreadsheet with one row
// per appointment and a totals row at the bottom.
func (s *TimesheetService) ExportXLSX(ctx context.Context, filter types.Filter, from, to *time.Time) (*excelize.File, error) {
	filter.WithPagination = false
	entries, _, err := s.GetEntries(ctx, filter, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Timesheet"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "User", "Project", "Ticket", "Hours", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header cell: %w", err)
		}
	}

	var totalHours float64
	for i, e := range entries {
		rowIdx := i + 2
		values := []interface{}{e.Date, e.User.Name, e.Project.Name, e.TicketID.String, e.Hours, e.Note}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing entry cell: %w", err)
			}
		}
		totalHours += e.Hours
	}

	totalRow := len(entries) + 2
	labelCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	if err := f.SetCellValue(sheet, labelCell, "Total"); err != nil {
		return nil, fmt.Errorf("writing totals row: %w", err)
	}
	if err := f.SetCellValue(sheet, valueCell, totalHours); err != nil {
		return nil, fmt.Errorf("writing totals row: %w", err)
	}

	return f, nil
}
