package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
)

type SlaRuleServiceInterface interface {
	GetMatrix(ctx context.Context, projectID string, weekdayID int) ([]dto.SlaMatrixRowDTO, error)
	SaveMatrix(ctx context.Context, data dto.SaveSlaMatrixDTO) error
	ListRules(ctx context.Context, projectID string, weekdayID int) ([]dto.SlaRuleDTO, error)
}

// SlaRuleService drives MatrixSession from the HTTP surface: reads render
// the persisted matrix, saves replay the submitted rows into a fresh
// session and reconcile.
type SlaRuleService struct {
	ruleRepo repositories.SlaRuleRepositoryInterface
	refs     ReferenceServiceInterface
	logger   *zap.Logger
}

func NewSlaRuleService(
	ruleRepo repositories.SlaRuleRepositoryInterface,
	refs ReferenceServiceInterface,
	logger *zap.Logger,
) SlaRuleServiceInterface {
	return &SlaRuleService{ruleRepo: ruleRepo, refs: refs, logger: logger}
}

func (s *SlaRuleService) GetMatrix(ctx context.Context, projectID string, weekdayID int) ([]dto.SlaMatrixRowDTO, error) {
	session, err := NewMatrixSession(projectID, weekdayID, s.ruleRepo, s.refs)
	if err != nil {
		return nil, err
	}
	if err := session.Load(ctx); err != nil {
		return nil, err
	}

	rows := session.Rows()
	out := make([]dto.SlaMatrixRowDTO, 0, len(rows))
	for _, row := range rows {
		rowDTO := dto.SlaMatrixRowDTO{
			TicketCategoryID: row.Key.CategoryID,
			StatusGroupID:    row.Key.StatusGroupID,
			HoursByPriority:  make(map[string]string, len(row.Cells)),
			RuleIDByPriority: make(map[string]string),
			Warning:          row.Warning,
		}
		for priorityID, cell := range row.Cells {
			rowDTO.HoursByPriority[priorityID] = cell.Hours
			if cell.RuleID != "" {
				rowDTO.RuleIDByPriority[priorityID] = cell.RuleID
			}
		}
		out = append(out, rowDTO)
	}
	return out, nil
}

// SaveMatrix loads a fresh session, replays the submitted rows over it and
// reconciles. Rows absent from the payload are removed, so the payload is
// the complete desired matrix, not a patch.
func (s *SlaRuleService) SaveMatrix(ctx context.Context, data dto.SaveSlaMatrixDTO) error {
	session, err := NewMatrixSession(data.ProjectID, data.WeekdayID, s.ruleRepo, s.refs)
	if err != nil {
		return err
	}
	if err := session.Load(ctx); err != nil {
		return err
	}

	wanted := make(map[RowKey]struct{}, len(data.Rows))
	for _, rowDTO := range data.Rows {
		wanted[RowKey{CategoryID: rowDTO.TicketCategoryID, StatusGroupID: rowDTO.StatusGroupID}] = struct{}{}
	}
	for _, row := range session.Rows() {
		if _, ok := wanted[row.Key]; !ok {
			if err := session.RemoveRow(row.Key.CategoryID, row.Key.StatusGroupID); err != nil {
				return err
			}
		}
	}

	for _, rowDTO := range data.Rows {
		if err := session.AddRow(rowDTO.TicketCategoryID, rowDTO.StatusGroupID); err != nil {
			return err
		}
		for _, p := range session.Priorities() {
			hours, ok := rowDTO.HoursByPriority[p.ID]
			if !ok {
				hours = ""
			}
			if err := session.SetCell(rowDTO.TicketCategoryID, rowDTO.StatusGroupID, p.ID, hours); err != nil {
				return fmt.Errorf("category %q, status group %d: %w", rowDTO.TicketCategoryID, rowDTO.StatusGroupID, err)
			}
		}
		if err := session.SetWarning(rowDTO.TicketCategoryID, rowDTO.StatusGroupID, rowDTO.Warning); err != nil {
			return err
		}
	}

	if err := session.Save(ctx); err != nil {
		s.logger.Error("sla matrix save failed",
			zap.String("projectId", data.ProjectID),
			zap.Int("weekdayId", data.WeekdayID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *SlaRuleService) ListRules(ctx context.Context, projectID string, weekdayID int) ([]dto.SlaRuleDTO, error) {
	if projectID == "" {
		return nil, apperrors.NewInvalidInputError("project id is required")
	}
	if !entities.ValidWeekday(weekdayID) {
		return nil, apperrors.NewInvalidInputError("weekday id %d is out of range", weekdayID)
	}

	rules, err := s.ruleRepo.ListByProjectAndWeekday(ctx, projectID, weekdayID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SlaRuleDTO, 0, len(rules))
	for _, rule := range rules {
		out = append(out, dto.SlaRuleDTO{
			ID:               rule.ID,
			ProjectID:        rule.ProjectID,
			TicketCategoryID: rule.TicketCategoryID,
			StatusGroupID:    rule.StatusGroupID,
			PriorityID:       rule.PriorityID,
			WeekdayID:        rule.WeekdayID,
			SlaHours:         rule.SlaHours,
			Warning:          rule.Warning,
		})
	}
	return out, nil
}
