package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
)

// fakeReferenceService widens fakeRefProvider to the full reference
// contract; the matrix only ever touches priorities and categories.
type fakeReferenceService struct {
	*fakeRefProvider
}

func (f *fakeReferenceService) Statuses(ctx context.Context) ([]*entities.TicketStatus, error) {
	return nil, nil
}
func (f *fakeReferenceService) TicketTypes(ctx context.Context) ([]*entities.TicketType, error) {
	return nil, nil
}
func (f *fakeReferenceService) FormData(ctx context.Context) (*dto.ReferenceFormDataDTO, error) {
	return &dto.ReferenceFormDataDTO{}, nil
}
func (f *fakeReferenceService) Invalidate(ctx context.Context) {}

func newSlaRuleServiceForTest(repo *fakeSlaRuleRepo) SlaRuleServiceInterface {
	return NewSlaRuleService(repo, &fakeReferenceService{defaultRefProvider()}, zap.NewNop())
}

func TestGetMatrixGroupsRulesIntoRows(t *testing.T) {
	repo := newFakeSlaRuleRepo(
		entities.SlaRule{ID: "r1", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4, Warning: true},
		entities.SlaRule{ID: "r2", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "low", WeekdayID: 1, SlaHours: 24, Warning: true},
		entities.SlaRule{ID: "r3", ProjectID: "proj-1", TicketCategoryID: "cat-2", StatusGroupID: 2, PriorityID: "medium", WeekdayID: 1, SlaHours: 8},
		// Different weekday, must not leak into the requested scope.
		entities.SlaRule{ID: "r4", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 2, SlaHours: 6},
	)
	svc := newSlaRuleServiceForTest(repo)

	rows, err := svc.GetMatrix(context.Background(), "proj-1", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "cat-1", first.TicketCategoryID)
	assert.Equal(t, 1, first.StatusGroupID)
	assert.Equal(t, "4", first.HoursByPriority["high"])
	assert.Equal(t, "", first.HoursByPriority["medium"])
	assert.Equal(t, "24", first.HoursByPriority["low"])
	assert.Equal(t, "r1", first.RuleIDByPriority["high"])
	assert.True(t, first.Warning)

	second := rows[1]
	assert.Equal(t, "cat-2", second.TicketCategoryID)
	assert.Equal(t, 2, second.StatusGroupID)
	assert.Equal(t, "8", second.HoursByPriority["medium"])
}

// The save payload is the complete desired matrix: rows not present in it
// lose their persisted rules.
func TestSaveMatrixReplacesWholeScope(t *testing.T) {
	repo := newFakeSlaRuleRepo(
		entities.SlaRule{ID: "r1", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4},
		entities.SlaRule{ID: "r2", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "medium", WeekdayID: 1, SlaHours: 8},
	)
	svc := newSlaRuleServiceForTest(repo)

	payload := dto.SaveSlaMatrixDTO{
		ProjectID: "proj-1",
		WeekdayID: 1,
		Rows: []dto.SlaMatrixRowDTO{
			{
				TicketCategoryID: "cat-2",
				StatusGroupID:    2,
				HoursByPriority:  map[string]string{"high": "2"},
			},
		},
	}
	require.NoError(t, svc.SaveMatrix(context.Background(), payload))

	deleted := append([]string(nil), repo.deleted...)
	sort.Strings(deleted)
	assert.Equal(t, []string{"r1", "r2"}, deleted)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "cat-2", repo.created[0].TicketCategoryID)
	assert.Equal(t, 2, repo.created[0].SlaHours)
}

// An edited cell keeps its persisted rule id so the delete phase never
// touches it.
func TestSaveMatrixProtectsEditedCells(t *testing.T) {
	repo := newFakeSlaRuleRepo(
		entities.SlaRule{ID: "r1", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4},
	)
	svc := newSlaRuleServiceForTest(repo)

	payload := dto.SaveSlaMatrixDTO{
		ProjectID: "proj-1",
		WeekdayID: 1,
		Rows: []dto.SlaMatrixRowDTO{
			{
				TicketCategoryID: "cat-1",
				StatusGroupID:    1,
				HoursByPriority:  map[string]string{"high": "6"},
			},
		},
	}
	require.NoError(t, svc.SaveMatrix(context.Background(), payload))

	assert.Empty(t, repo.deleted)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "r1", repo.created[0].ID)
	assert.Equal(t, 6, repo.created[0].SlaHours)
}

func TestSaveMatrixRejectsBadHours(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	svc := newSlaRuleServiceForTest(repo)

	payload := dto.SaveSlaMatrixDTO{
		ProjectID: "proj-1",
		WeekdayID: 1,
		Rows: []dto.SlaMatrixRowDTO{
			{
				TicketCategoryID: "cat-1",
				StatusGroupID:    1,
				HoursByPriority:  map[string]string{"high": "zero"},
			},
		},
	}
	err := svc.SaveMatrix(context.Background(), payload)
	require.Error(t, err)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, repo.created)
}

func TestListRulesValidatesScope(t *testing.T) {
	svc := newSlaRuleServiceForTest(newFakeSlaRuleRepo())

	_, err := svc.ListRules(context.Background(), "", 1)
	assert.Error(t, err)

	_, err = svc.ListRules(context.Background(), "proj-1", 9)
	assert.Error(t, err)
}
