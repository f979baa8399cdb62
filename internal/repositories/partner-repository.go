package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

const (
	partnerTable  = "partners"
	partnerFields = "id, name, tax_id, active, created_at, updated_at"
)

var allowedPartnerFilters = map[string]string{
	"id":     "id",
	"active": "active",
}

type PartnerRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.Partner, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Partner, uint64, error)
	Create(ctx context.Context, p entities.Partner) (string, error)
	Update(ctx context.Context, id string, p entities.Partner) error
	Delete(ctx context.Context, id string) error
}

type partnerRepository struct {
	storage *pgxpool.Pool
}

func NewPartnerRepository(storage *pgxpool.Pool) PartnerRepositoryInterface {
	return &partnerRepository{storage: storage}
}

func (r *partnerRepository) scanRow(row pgx.Row) (*entities.Partner, error) {
	var p entities.Partner
	err := row.Scan(&p.ID, &p.Name, &p.TaxID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning partners row: %w", err)
	}
	return &p, nil
}

func (r *partnerRepository) FindByID(ctx context.Context, id string) (*entities.Partner, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(partnerFields).From(partnerTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building partners find query: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *partnerRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Partner, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			b = b.Where(sq.ILike{"name": "%" + filter.Search + "%"})
		}
		for key, value := range filter.Filter {
			if dbColumn, ok := allowedPartnerFilters[key]; ok {
				b = b.Where(sq.Eq{dbColumn: value})
			}
		}
		return b
	}

	countQuery, countArgs, err := applyWhere(psql.Select("COUNT(id)").From(partnerTable)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building partners count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("executing partners count: %w", err)
	}
	if total == 0 {
		return []*entities.Partner{}, 0, nil
	}

	builder := applyWhere(psql.Select(partnerFields).From(partnerTable))

	if dir, ok := filter.Sort["name"]; ok && strings.EqualFold(dir, "desc") {
		builder = builder.OrderBy("name DESC")
	} else {
		builder = builder.OrderBy("name ASC")
	}

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
		return nil, 0, fmt.Errorf("building partners select query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("executing partners select: %w", err)
	}
	defer rows.Close()

	partners := make([]*entities.Partner, 0)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating partners rows: %w", err)
	}

	return partners, total, nil
}

func (r *partnerRepository) Create(ctx context.Context, p entities.Partner) (string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(partnerTable).
		Columns("id", "name", "tax_id", "active", "created_at", "updated_at").
		Values(p.ID, p.Name, p.TaxID, true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building partners insert: %w", err)
	}

	var newID string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("partner with this tax id already exists: %w", apperrors.ErrConflict)
		}
		return "", fmt.Errorf("inserting partners row: %w", err)
	}
	return newID, nil
}

func (r *partnerRepository) Update(ctx context.Context, id string, p entities.Partner) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(partnerTable).
		Set("name", p.Name).
		Set("tax_id", p.TaxID).
		Set("active", p.Active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building partners update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating partners row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *partnerRepository) Delete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(partnerTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building partners delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewHttpError(400, "partner cannot be deleted while it is referenced", err)
		}
		return fmt.Errorf("deleting partners row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
