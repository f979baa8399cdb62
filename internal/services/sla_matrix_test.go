package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ams-portal/internal/entities"
)

// fakeSlaRuleRepo counts every call so tests can assert that validation
// failures never reach the persistence layer.
type fakeSlaRuleRepo struct {
	mu        sync.Mutex
	rules     map[string]entities.SlaRule
	listCalls int
	deleted   []string
	created   []entities.SlaRule
	deleteErr error
	createErr error
}

func newFakeSlaRuleRepo(rules ...entities.SlaRule) *fakeSlaRuleRepo {
	repo := &fakeSlaRuleRepo{rules: make(map[string]entities.SlaRule)}
	for _, r := range rules {
		repo.rules[r.ID] = r
	}
	return repo
}

func (f *fakeSlaRuleRepo) ListByProjectAndWeekday(ctx context.Context, projectID string, weekdayID int) ([]*entities.SlaRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]*entities.SlaRule, 0, len(f.rules))
	for _, r := range f.rules {
		if r.ProjectID == projectID && r.WeekdayID == weekdayID {
			rule := r
			out = append(out, &rule)
		}
	}
	return out, nil
}

func (f *fakeSlaRuleRepo) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rules, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSlaRuleRepo) CreateBatch(ctx context.Context, rules []entities.SlaRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range rules {
		f.rules[r.ID] = r
	}
	f.created = append(f.created, rules...)
	return nil
}

func (f *fakeSlaRuleRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + len(f.deleted) + len(f.created)
}

type fakeRefProvider struct {
	priorities []*entities.Priority
	categories []*entities.TicketCategory
	err        error
}

func (f *fakeRefProvider) Priorities(ctx context.Context) ([]*entities.Priority, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.priorities, nil
}

func (f *fakeRefProvider) AMSCategories(ctx context.Context) ([]*entities.TicketCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func defaultRefProvider() *fakeRefProvider {
	return &fakeRefProvider{
		priorities: []*entities.Priority{
			{ID: "high", Name: "High", Weight: 1},
			{ID: "medium", Name: "Medium", Weight: 2},
			{ID: "low", Name: "Low", Weight: 3},
		},
		categories: []*entities.TicketCategory{
			{ID: "cat-1", Name: "Incident", IsAMS: true},
			{ID: "cat-2", Name: "Service Request", IsAMS: true},
		},
	}
}

func loadedSession(t *testing.T, repo *fakeSlaRuleRepo) *MatrixSession {
	t.Helper()
	session, err := NewMatrixSession("proj-1", 1, repo, defaultRefProvider())
	require.NoError(t, err)
	require.NoError(t, session.Load(context.Background()))
	require.Equal(t, MatrixReady, session.State())
	return session
}

func TestMatrixSessionLifecycle(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	session, err := NewMatrixSession("proj-1", 1, repo, defaultRefProvider())
	require.NoError(t, err)
	assert.Equal(t, MatrixUninitialized, session.State())

	require.NoError(t, session.Load(context.Background()))
	assert.Equal(t, MatrixReady, session.State())

	// Editing before load is rejected; a loaded session cannot load again.
	assert.Error(t, session.Load(context.Background()))
}

func TestMatrixSessionLoadFailureIsRetryable(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	refs := defaultRefProvider()
	refs.err = errors.New("reference store down")

	session, err := NewMatrixSession("proj-1", 1, repo, refs)
	require.NoError(t, err)
	require.Error(t, session.Load(context.Background()))
	assert.Equal(t, MatrixUninitialized, session.State())

	// Once the dependency recovers the same session loads fine.
	refs.err = nil
	require.NoError(t, session.Load(context.Background()))
	assert.Equal(t, MatrixReady, session.State())
}

func TestMatrixSessionRejectsInvalidScope(t *testing.T) {
	repo := newFakeSlaRuleRepo()

	_, err := NewMatrixSession("", 1, repo, defaultRefProvider())
	assert.Error(t, err)

	_, err = NewMatrixSession("proj-1", 0, repo, defaultRefProvider())
	assert.Error(t, err)

	_, err = NewMatrixSession("proj-1", 8, repo, defaultRefProvider())
	assert.Error(t, err)
}

func TestSetCellValidation(t *testing.T) {
	session := loadedSession(t, newFakeSlaRuleRepo())
	require.NoError(t, session.AddRow("cat-1", entities.StatusGroupNew))

	require.NoError(t, session.SetCell("cat-1", entities.StatusGroupNew, "high", "8"))
	require.NoError(t, session.SetCell("cat-1", entities.StatusGroupNew, "high", "")) // clearing is fine

	for _, bad := range []string{"0", "00", "-1", "1.5", "8h", " 8", "abc"} {
		assert.Error(t, session.SetCell("cat-1", entities.StatusGroupNew, "high", bad), "value %q", bad)
	}
}

// A save over a session holding an invalid value must fail before any
// round trip to the repository.
func TestSaveValidatesBeforeAnyPersistenceCall(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	session := loadedSession(t, repo)
	require.NoError(t, session.AddRow("cat-1", entities.StatusGroupNew))

	// Corrupt a cell directly, bypassing SetCell's gate.
	row := session.rows[RowKey{CategoryID: "cat-1", StatusGroupID: entities.StatusGroupNew}]
	row.Cells["high"].Hours = "not-a-number"

	callsBefore := repo.callCount()
	err := session.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, callsBefore, repo.callCount(), "save must not touch the repository on validation failure")
	assert.Equal(t, MatrixReady, session.State())
}

// Persisted {A, B, C}; the working copy keeps B (edited) and adds D. Saving
// must delete A and C, keep B protected, and upsert B and D.
func TestSaveReconcilesDeletesAndCreates(t *testing.T) {
	ruleA := entities.SlaRule{ID: "rule-a", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4}
	ruleB := entities.SlaRule{ID: "rule-b", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "medium", WeekdayID: 1, SlaHours: 8}
	ruleC := entities.SlaRule{ID: "rule-c", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "low", WeekdayID: 1, SlaHours: 16}
	repo := newFakeSlaRuleRepo(ruleA, ruleB, ruleC)

	session := loadedSession(t, repo)

	// Clear A and C, edit B, add D in another row.
	require.NoError(t, session.SetCell("cat-1", 1, "high", ""))
	require.NoError(t, session.SetCell("cat-1", 1, "low", ""))
	require.NoError(t, session.SetCell("cat-1", 1, "medium", "12"))
	require.NoError(t, session.AddRow("cat-2", entities.StatusGroupInProgress))
	require.NoError(t, session.SetCell("cat-2", entities.StatusGroupInProgress, "high", "2"))

	require.NoError(t, session.Save(context.Background()))

	deleted := append([]string(nil), repo.deleted...)
	sort.Strings(deleted)
	assert.Equal(t, []string{"rule-a", "rule-c"}, deleted)

	require.Len(t, repo.created, 2)
	byPriority := make(map[string]entities.SlaRule)
	for _, r := range repo.created {
		byPriority[r.PriorityID] = r
	}
	assert.Equal(t, 12, byPriority["medium"].SlaHours)
	assert.Equal(t, "rule-b", byPriority["medium"].ID, "edited cell keeps its rule id")
	assert.Equal(t, 2, byPriority["high"].SlaHours)
	assert.Equal(t, "cat-2", byPriority["high"].TicketCategoryID)
	assert.False(t, byPriority["high"].Warning)

	// A successful save resets the session; the next load re-derives
	// everything from persisted truth.
	assert.Equal(t, MatrixUninitialized, session.State())
}

// {high: 8, medium: "", low: 4} flattens to exactly two records.
func TestEmptyCellsProduceNoRecords(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	session := loadedSession(t, repo)
	require.NoError(t, session.AddRow("cat-1", entities.StatusGroupNew))
	require.NoError(t, session.SetCell("cat-1", 1, "high", "8"))
	require.NoError(t, session.SetCell("cat-1", 1, "low", "4"))

	require.NoError(t, session.Save(context.Background()))

	require.Len(t, repo.created, 2)
	priorities := []string{repo.created[0].PriorityID, repo.created[1].PriorityID}
	sort.Strings(priorities)
	assert.Equal(t, []string{"high", "low"}, priorities)
}

func TestRemovedRowRulesAreDeleted(t *testing.T) {
	ruleA := entities.SlaRule{ID: "rule-a", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4}
	repo := newFakeSlaRuleRepo(ruleA)

	session := loadedSession(t, repo)
	require.NoError(t, session.RemoveRow("cat-1", 1))
	require.NoError(t, session.Save(context.Background()))

	assert.Equal(t, []string{"rule-a"}, repo.deleted)
	assert.Empty(t, repo.created)
}

func TestSaveFailureRestoresReadyState(t *testing.T) {
	ruleA := entities.SlaRule{ID: "rule-a", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4}
	repo := newFakeSlaRuleRepo(ruleA)
	repo.deleteErr = errors.New("database gone")

	session := loadedSession(t, repo)
	require.NoError(t, session.SetCell("cat-1", 1, "high", ""))

	err := session.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, MatrixReady, session.State())

	// The working rows survive the failure: clearing is still in effect.
	row := session.rows[RowKey{CategoryID: "cat-1", StatusGroupID: 1}]
	require.NotNil(t, row)
	assert.Empty(t, row.Cells["high"].Hours)
}

// End to end: group 1 is removed, group 2 gains {high: 2}. The save issues
// two deletes for the vacated group and one create for the new cell, with
// warning defaulting to false.
func TestSaveScenarioSwapStatusGroups(t *testing.T) {
	rule1 := entities.SlaRule{ID: "rule-1", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "high", WeekdayID: 1, SlaHours: 4}
	rule2 := entities.SlaRule{ID: "rule-2", ProjectID: "proj-1", TicketCategoryID: "cat-1", StatusGroupID: 1, PriorityID: "medium", WeekdayID: 1, SlaHours: 8}
	repo := newFakeSlaRuleRepo(rule1, rule2)

	session := loadedSession(t, repo)
	require.NoError(t, session.RemoveRow("cat-1", entities.StatusGroupNew))
	require.NoError(t, session.AddRow("cat-1", entities.StatusGroupInProgress))
	require.NoError(t, session.SetCell("cat-1", entities.StatusGroupInProgress, "high", "2"))

	require.NoError(t, session.Save(context.Background()))

	deleted := append([]string(nil), repo.deleted...)
	sort.Strings(deleted)
	assert.Equal(t, []string{"rule-1", "rule-2"}, deleted)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, entities.StatusGroupInProgress, created.StatusGroupID)
	assert.Equal(t, "high", created.PriorityID)
	assert.Equal(t, 2, created.SlaHours)
	assert.False(t, created.Warning)
	assert.NotEmpty(t, created.ID)
}

func TestSaveOnCancelledContext(t *testing.T) {
	repo := newFakeSlaRuleRepo()
	session := loadedSession(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.Save(ctx)
	require.Error(t, err)
	// A cancelled save must not pretend the session is still editable.
	assert.NotEqual(t, MatrixReady, session.State())
}

func TestMatrixRowsAreDeterministicallyOrdered(t *testing.T) {
	session := loadedSession(t, newFakeSlaRuleRepo())
	require.NoError(t, session.AddRow("cat-2", 3))
	require.NoError(t, session.AddRow("cat-1", 2))
	require.NoError(t, session.AddRow("cat-1", 1))

	rows := session.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, RowKey{"cat-1", 1}, rows[0].Key)
	assert.Equal(t, RowKey{"cat-1", 2}, rows[1].Key)
	assert.Equal(t, RowKey{"cat-2", 3}, rows[2].Key)
}

func TestAddRowRejectsUnknownCategoryAndGroup(t *testing.T) {
	session := loadedSession(t, newFakeSlaRuleRepo())
	assert.Error(t, session.AddRow("nope", 1))
	assert.Error(t, session.AddRow("cat-1", 0))
	assert.Error(t, session.AddRow("cat-1", 5))
}
