package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

const (
	timesheetTable  = "timesheet_entries"
	timesheetFields = "id, user_id, project_id, ticket_id, date, hours, note, created_at, updated_at"
)

var allowedTimesheetFilters = map[string]string{
	"user_id":    "user_id",
	"project_id": "project_id",
	"ticket_id":  "ticket_id",
}

type TimesheetRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.TimesheetEntry, error)
	GetAll(ctx context.Context, filter types.Filter, from, to *time.Time) ([]*entities.TimesheetEntry, uint64, error)
	Create(ctx context.Context, e entities.TimesheetEntry) (string, error)
	Update(ctx context.Context, id string, e entities.TimesheetEntry) error
	Delete(ctx context.Context, id string) error
}

type timesheetRepository struct {
	storage *pgxpool.Pool
}

func NewTimesheetRepository(storage *pgxpool.Pool) TimesheetRepositoryInterface {
	return &timesheetRepository{storage: storage}
}

func (r *timesheetRepository) scanRow(row pgx.Row) (*entities.TimesheetEntry, error) {
	var e entities.TimesheetEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.TicketID, &e.Date, &e.Hours, &e.Note, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning timesheet_entries row: %w", err)
	}
	return &e, nil
}

func (r *timesheetRepository) FindByID(ctx context.Context, id string) (*entities.TimesheetEntry, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(timesheetFields).From(timesheetTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building timesheet find query: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *timesheetRepository) GetAll(ctx context.Context, filter types.Filter, from, to *time.Time) ([]*entities.TimesheetEntry, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		for key, value := range filter.Filter {
			if dbColumn, ok := allowedTimesheetFilters[key]; ok {
				b = b.Where(sq.Eq{dbColumn: value})
			}
		}
		if from != nil {
			b = b.Where(sq.GtOrEq{"date": *from})
		}
		if to != nil {
			b = b.Where(sq.LtOrEq{"date": *to})
		}
		return b
	}

	countQuery, countArgs, err := applyWhere(psql.Select("COUNT(id)").From(timesheetTable)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building timesheet count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("executing timesheet count: %w", err)
	}
	if total == 0 {
		return []*entities.TimesheetEntry{}, 0, nil
	}

	builder := applyWhere(psql.Select(timesheetFields).From(timesheetTable)).OrderBy("date DESC")

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building timesheet select query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("executing timesheet select: %w", err)
	}
	defer rows.Close()

	timeEntries := make([]*entities.TimesheetEntry, 0)
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		timeEntries = append(timeEntries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating timesheet rows: %w", err)
	}

	return timeEntries, total, nil
}

func (r *timesheetRepository) Create(ctx context.Context, e entities.TimesheetEntry) (string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(timesheetTable).
		Columns("id", "user_id", "project_id", "ticket_id", "date", "hours", "note", "created_at", "updated_at").
		Values(e.ID, e.UserID, e.ProjectID, e.TicketID, e.Date, e.Hours, e.Note, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building timesheet insert: %w", err)
	}

	var newID string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return "", fmt.Errorf("inserting timesheet row: %w", err)
	}
	return newID, nil
}

func (r *timesheetRepository) Update(ctx context.Context, id string, e entities.TimesheetEntry) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(timesheetTable).
		Set("date", e.Date).
		Set("hours", e.Hours).
		Set("note", e.Note).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building timesheet update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating timesheet row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *timesheetRepository) Delete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(timesheetTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building timesheet delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting timesheet row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
