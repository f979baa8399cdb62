package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
	apperrors "ams-portal/pkg/errors"
)

// MatrixState tracks how far a matrix session has progressed. Editing
// operations are legal only in Ready; Save moves through Saving and, on
// success, back to Uninitialized so the next load re-derives everything
// from persisted truth.
type MatrixState int

const (
	MatrixUninitialized MatrixState = iota
	MatrixReferenceDataLoaded
	MatrixRulesLoaded
	MatrixReady
	MatrixSaving
)

func (s MatrixState) String() string {
	switch s {
	case MatrixUninitialized:
		return "uninitialized"
	case MatrixReferenceDataLoaded:
		return "reference-data-loaded"
	case MatrixRulesLoaded:
		return "rules-loaded"
	case MatrixReady:
		return "ready"
	case MatrixSaving:
		return "saving"
	default:
		return fmt.Sprintf("MatrixState(%d)", int(s))
	}
}

// RowKey identifies one matrix row: a ticket category crossed with a
// status group.
type RowKey struct {
	CategoryID    string
	StatusGroupID int
}

// MatrixCell is one editable cell. Hours is a digit string; the empty
// string is the "no rule" sentinel. RuleID is set when the cell is backed
// by a persisted rule.
type MatrixCell struct {
	Hours  string
	RuleID string
}

// MatrixRow holds the cells of one row keyed by priority id.
type MatrixRow struct {
	Key     RowKey
	Cells   map[string]*MatrixCell
	Warning bool
}

// MatrixSession is the editable working copy of the SLA matrix for one
// (project, weekday) pair. It is not safe for concurrent use; each editing
// request owns its session.
type MatrixSession struct {
	projectID string
	weekdayID int

	state      MatrixState
	priorities []*entities.Priority
	categories []*entities.TicketCategory
	rows       map[RowKey]*MatrixRow

	ruleRepo repositories.SlaRuleRepositoryInterface
	refs     ReferenceProvider
}

// ReferenceProvider is the slice of the reference-data service the matrix
// needs: the priority columns and the selectable categories.
type ReferenceProvider interface {
	Priorities(ctx context.Context) ([]*entities.Priority, error)
	AMSCategories(ctx context.Context) ([]*entities.TicketCategory, error)
}

func NewMatrixSession(projectID string, weekdayID int, ruleRepo repositories.SlaRuleRepositoryInterface, refs ReferenceProvider) (*MatrixSession, error) {
	if projectID == "" {
		return nil, apperrors.NewInvalidInputError("project id is required")
	}
	if !entities.ValidWeekday(weekdayID) {
		return nil, apperrors.NewInvalidInputError("weekday id %d is out of range", weekdayID)
	}
	return &MatrixSession{
		projectID: projectID,
		weekdayID: weekdayID,
		state:     MatrixUninitialized,
		rows:      make(map[RowKey]*MatrixRow),
		ruleRepo:  ruleRepo,
		refs:      refs,
	}, nil
}

func (m *MatrixSession) State() MatrixState { return m.state }

// Load pulls reference data and persisted rules and builds the working
// rows. Reference lists are fetched in parallel; a failure at any stage
// leaves the session Uninitialized so the caller can simply retry.
func (m *MatrixSession) Load(ctx context.Context) error {
	if m.state != MatrixUninitialized {
		return apperrors.NewInvalidInputError("matrix session already loaded (state %s)", m.state)
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		priorities []*entities.Priority
		categories []*entities.TicketCategory
	)
	g.Go(func() error {
		var err error
		priorities, err = m.refs.Priorities(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = m.refs.AMSCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading matrix reference data: %w", err)
	}
	if len(priorities) == 0 {
		return fmt.Errorf("loading matrix reference data: no priorities configured")
	}
	m.priorities = priorities
	m.categories = categories
	m.state = MatrixReferenceDataLoaded

	rules, err := m.ruleRepo.ListByProjectAndWeekday(ctx, m.projectID, m.weekdayID)
	if err != nil {
		m.reset()
		return fmt.Errorf("loading persisted rules: %w", err)
	}
	m.state = MatrixRulesLoaded

	if err := ctx.Err(); err != nil {
		m.reset()
		return err
	}

	m.rows = make(map[RowKey]*MatrixRow)
	for _, rule := range rules {
		key := RowKey{CategoryID: rule.TicketCategoryID, StatusGroupID: rule.StatusGroupID}
		row, ok := m.rows[key]
		if !ok {
			row = m.newRow(key)
			m.rows[key] = row
		}
		cell, ok := row.Cells[rule.PriorityID]
		if !ok {
			// Rule for a priority that no longer exists; ignore it so the
			// next save garbage-collects the orphan.
			continue
		}
		cell.Hours = fmt.Sprintf("%d", rule.SlaHours)
		cell.RuleID = rule.ID
		row.Warning = rule.Warning
	}
	m.state = MatrixReady
	return nil
}

func (m *MatrixSession) reset() {
	m.state = MatrixUninitialized
	m.priorities = nil
	m.categories = nil
	m.rows = make(map[RowKey]*MatrixRow)
}

func (m *MatrixSession) newRow(key RowKey) *MatrixRow {
	row := &MatrixRow{Key: key, Cells: make(map[string]*MatrixCell, len(m.priorities))}
	for _, p := range m.priorities {
		row.Cells[p.ID] = &MatrixCell{}
	}
	return row
}

func (m *MatrixSession) requireReady() error {
	if m.state != MatrixReady {
		return apperrors.NewInvalidInputError("matrix session is not editable (state %s)", m.state)
	}
	return nil
}

// AddRow creates an empty row for the (category, status group) pair. Adding
// an existing row is a no-op.
func (m *MatrixSession) AddRow(categoryID string, statusGroupID int) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if !entities.ValidStatusGroup(statusGroupID) {
		return apperrors.NewInvalidInputError("status group %d is out of range", statusGroupID)
	}
	if !m.knownCategory(categoryID) {
		return apperrors.NewInvalidInputError("unknown ticket category %q", categoryID)
	}
	key := RowKey{CategoryID: categoryID, StatusGroupID: statusGroupID}
	if _, ok := m.rows[key]; !ok {
		m.rows[key] = m.newRow(key)
	}
	return nil
}

// RemoveRow drops the row from the working copy. The persisted rules behind
// it are reconciled away on the next Save.
func (m *MatrixSession) RemoveRow(categoryID string, statusGroupID int) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	delete(m.rows, RowKey{CategoryID: categoryID, StatusGroupID: statusGroupID})
	return nil
}

func (m *MatrixSession) knownCategory(id string) bool {
	for _, c := range m.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (m *MatrixSession) knownPriority(id string) bool {
	for _, p := range m.priorities {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SetCell writes an hours value into a cell. Empty clears the cell; any
// other value must be a strictly positive digit string.
func (m *MatrixSession) SetCell(categoryID string, statusGroupID int, priorityID, hours string) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	if hours != "" {
		if err := validateHours(hours); err != nil {
			return err
		}
	}
	row, ok := m.rows[RowKey{CategoryID: categoryID, StatusGroupID: statusGroupID}]
	if !ok {
		return apperrors.NewInvalidInputError("no matrix row for category %q, status group %d", categoryID, statusGroupID)
	}
	cell, ok := row.Cells[priorityID]
	if !ok {
		return apperrors.NewInvalidInputError("unknown priority %q", priorityID)
	}
	cell.Hours = hours
	return nil
}

func (m *MatrixSession) SetWarning(categoryID string, statusGroupID int, warning bool) error {
	if err := m.requireReady(); err != nil {
		return err
	}
	row, ok := m.rows[RowKey{CategoryID: categoryID, StatusGroupID: statusGroupID}]
	if !ok {
		return apperrors.NewInvalidInputError("no matrix row for category %q, status group %d", categoryID, statusGroupID)
	}
	row.Warning = warning
	return nil
}

// Rows returns the working rows in deterministic order for rendering.
func (m *MatrixSession) Rows() []*MatrixRow {
	rows := make([]*MatrixRow, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Key.CategoryID != rows[j].Key.CategoryID {
			return rows[i].Key.CategoryID < rows[j].Key.CategoryID
		}
		return rows[i].Key.StatusGroupID < rows[j].Key.StatusGroupID
	})
	return rows
}

func (m *MatrixSession) Priorities() []*entities.Priority { return m.priorities }

// validateHours accepts only strictly positive base-10 digit strings. No
// signs, spaces, decimal points or leading-zero-only values.
func validateHours(hours string) error {
	if hours == "" {
		return apperrors.NewInvalidInputError("hours value is empty")
	}
	nonZero := false
	for _, r := range hours {
		if r < '0' || r > '9' {
			return apperrors.NewInvalidInputError("hours value %q is not a positive whole number", hours)
		}
		if r != '0' {
			nonZero = true
		}
	}
	if !nonZero {
		return apperrors.NewInvalidInputError("hours value must be greater than zero")
	}
	return nil
}

func parseHours(hours string) int {
	n := 0
	for _, r := range hours {
		n = n*10 + int(r-'0')
	}
	return n
}

// Save reconciles the working copy against the database:
//
//  1. every non-empty cell is validated before any I/O happens;
//  2. the persisted rule set is re-fetched, and every persisted rule whose
//     id is not protected by a non-empty working cell is deleted;
//  3. the non-empty cells are flattened and upserted in one batch.
//
// Deletes run concurrently and the whole save aborts on the first failure.
// On success the session resets to Uninitialized; on failure it returns to
// Ready with the working rows untouched.
func (m *MatrixSession) Save(ctx context.Context) error {
	if err := m.requireReady(); err != nil {
		return err
	}

	for _, row := range m.rows {
		for priorityID, cell := range row.Cells {
			if cell.Hours == "" {
				continue
			}
			if err := validateHours(cell.Hours); err != nil {
				return fmt.Errorf("category %q, status group %d, priority %q: %w",
					row.Key.CategoryID, row.Key.StatusGroupID, priorityID, err)
			}
		}
	}

	m.state = MatrixSaving
	restore := func() {
		if ctx.Err() == nil {
			m.state = MatrixReady
		}
	}

	persisted, err := m.ruleRepo.ListByProjectAndWeekday(ctx, m.projectID, m.weekdayID)
	if err != nil {
		restore()
		return fmt.Errorf("refreshing persisted rules: %w", err)
	}

	protected := make(map[string]struct{})
	for _, row := range m.rows {
		for _, cell := range row.Cells {
			if cell.Hours != "" && cell.RuleID != "" {
				protected[cell.RuleID] = struct{}{}
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rule := range persisted {
		if _, ok := protected[rule.ID]; ok {
			continue
		}
		id := rule.ID
		g.Go(func() error {
			if err := m.ruleRepo.DeleteByID(gctx, id); err != nil {
				return fmt.Errorf("deleting rule %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		restore()
		return err
	}

	rules := make([]entities.SlaRule, 0)
	for _, row := range m.rows {
		for priorityID, cell := range row.Cells {
			if cell.Hours == "" {
				continue
			}
			id := cell.RuleID
			if id == "" {
				id = uuid.NewString()
			}
			rules = append(rules, entities.SlaRule{
				ID:               id,
				ProjectID:        m.projectID,
				TicketCategoryID: row.Key.CategoryID,
				StatusGroupID:    row.Key.StatusGroupID,
				PriorityID:       priorityID,
				WeekdayID:        m.weekdayID,
				SlaHours:         parseHours(cell.Hours),
				Warning:          row.Warning,
			})
		}
	}
	if err := m.ruleRepo.CreateBatch(ctx, rules); err != nil {
		restore()
		return fmt.Errorf("writing replacement rules: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	m.reset()
	return nil
}
