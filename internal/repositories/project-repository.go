package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

const (
	projectTable  = "projects"
	projectFields = "id, name, partner_id, is_ams, active, created_at, updated_at"
)

var allowedProjectFilters = map[string]string{
	"id":         "id",
	"partner_id": "partner_id",
	"is_ams":     "is_ams",
	"active":     "active",
}

type ProjectRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.Project, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Project, uint64, error)
	Create(ctx context.Context, p entities.Project) (string, error)
	Update(ctx context.Context, id string, p entities.Project) error
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	storage *pgxpool.Pool
}

func NewProjectRepository(storage *pgxpool.Pool) ProjectRepositoryInterface {
	return &projectRepository{storage: storage}
}

func (r *projectRepository) scanRow(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Name, &p.PartnerID, &p.IsAMS, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning projects row: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*entities.Project, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(projectFields).From(projectTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building projects find query: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *projectRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Project, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			b = b.Where(sq.ILike{"name": "%" + filter.Search + "%"})
		}
		for key, value := range filter.Filter {
			if dbColumn, ok := allowedProjectFilters[key]; ok {
				b = b.Where(sq.Eq{dbColumn: value})
			}
		}
		return b
	}

	countQuery, countArgs, err := applyWhere(psql.Select("COUNT(id)").From(projectTable)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building projects count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("executing projects count: %w", err)
	}
	if total == 0 {
		return []*entities.Project{}, 0, nil
	}

	builder := applyWhere(psql.Select(projectFields).From(projectTable)).OrderBy("name ASC")

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
		return nil, 0, fmt.Errorf("building projects select query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("executing projects select: %w", err)
	}
	defer rows.Close()

	projects := make([]*entities.Project, 0)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating projects rows: %w", err)
	}

	return projects, total, nil
}

func (r *projectRepository) Create(ctx context.Context, p entities.Project) (string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(projectTable).
		Columns("id", "name", "partner_id", "is_ams", "active", "created_at", "updated_at").
		Values(p.ID, p.Name, p.PartnerID, p.IsAMS, true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building projects insert: %w", err)
	}

	var newID string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return "", fmt.Errorf("inserting projects row: %w", err)
	}
	return newID, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, p entities.Project) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(projectTable).
		Set("name", p.Name).
		Set("is_ams", p.IsAMS).
		Set("active", p.Active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building projects update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating projects row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(projectTable).
		Set("active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building projects deactivate: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivating projects row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
