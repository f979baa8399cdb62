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
)

// ReferenceRepositoryInterface serves the ordered lookup lists the UI
// renders: priorities, AMS ticket categories, statuses and types.
type ReferenceRepositoryInterface interface {
	GetPriorities(ctx context.Context) ([]*entities.Priority, error)
	GetAMSCategories(ctx context.Context) ([]*entities.TicketCategory, error)
	GetStatuses(ctx context.Context) ([]*entities.TicketStatus, error)
	GetTicketTypes(ctx context.Context) ([]*entities.TicketType, error)
	FindStatusByID(ctx context.Context, id string) (*entities.TicketStatus, error)
	FindDefaultStatus(ctx context.Context) (*entities.TicketStatus, error)
}

type referenceRepository struct {
	storage *pgxpool.Pool
}

func NewReferenceRepository(storage *pgxpool.Pool) ReferenceRepositoryInterface {
	return &referenceRepository{storage: storage}
}

func (r *referenceRepository) GetPriorities(ctx context.Context) ([]*entities.Priority, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name, weight").From("priorities").OrderBy("weight ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building priorities query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing priorities query: %w", err)
	}
	defer rows.Close()

	priorities := make([]*entities.Priority, 0)
	for rows.Next() {
		var p entities.Priority
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight); err != nil {
			return nil, fmt.Errorf("scanning priorities row: %w", err)
		}
		priorities = append(priorities, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating priorities rows: %w", err)
	}
	return priorities, nil
}

func (r *referenceRepository) GetAMSCategories(ctx context.Context) ([]*entities.TicketCategory, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name, is_ams").
		From("ticket_categories").
		Where(sq.Eq{"is_ams": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building categories query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing categories query: %w", err)
	}
	defer rows.Close()

	categories := make([]*entities.TicketCategory, 0)
	for rows.Next() {
		var c entities.TicketCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.IsAMS); err != nil {
			return nil, fmt.Errorf("scanning categories row: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories rows: %w", err)
	}
	return categories, nil
}

func (r *referenceRepository) GetStatuses(ctx context.Context) ([]*entities.TicketStatus, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name, status_group_id").
		From("ticket_statuses").
		OrderBy("status_group_id ASC, name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building statuses query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing statuses query: %w", err)
	}
	defer rows.Close()

	statuses := make([]*entities.TicketStatus, 0)
	for rows.Next() {
		var s entities.TicketStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.StatusGroupID); err != nil {
			return nil, fmt.Errorf("scanning statuses row: %w", err)
		}
		statuses = append(statuses, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statuses rows: %w", err)
	}
	return statuses, nil
}

func (r *referenceRepository) GetTicketTypes(ctx context.Context) ([]*entities.TicketType, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name").From("ticket_types").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building ticket types query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing ticket types query: %w", err)
	}
	defer rows.Close()

	ticketTypes := make([]*entities.TicketType, 0)
	for rows.Next() {
		var t entities.TicketType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning ticket types row: %w", err)
		}
		ticketTypes = append(ticketTypes, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket types rows: %w", err)
	}
	return ticketTypes, nil
}

func (r *referenceRepository) FindStatusByID(ctx context.Context, id string) (*entities.TicketStatus, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name, status_group_id").
		From("ticket_statuses").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building status find query: %w", err)
	}

	var s entities.TicketStatus
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.StatusGroupID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning status row: %w", err)
	}
	return &s, nil
}

func (r *referenceRepository) FindDefaultStatus(ctx context.Context) (*entities.TicketStatus, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, name, status_group_id").
		From("ticket_statuses").
		Where(sq.Eq{"status_group_id": entities.StatusGroupNew}).
		OrderBy("name ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building default status query: %w", err)
	}

	var s entities.TicketStatus
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.StatusGroupID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning default status row: %w", err)
	}
	return &s, nil
}
