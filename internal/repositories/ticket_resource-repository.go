package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
)

// TicketResourceRepositoryInterface is the resource-allocation lookup the
// visibility filter depends on.
type TicketResourceRepositoryInterface interface {
	TicketIDsByUser(ctx context.Context, userID string) ([]string, error)
	ListByTicket(ctx context.Context, ticketID string) ([]*entities.TicketResource, error)
	Assign(ctx context.Context, res entities.TicketResource) error
	Unassign(ctx context.Context, ticketID, userID string) error
}

type ticketResourceRepository struct {
	storage *pgxpool.Pool
}

func NewTicketResourceRepository(storage *pgxpool.Pool) TicketResourceRepositoryInterface {
	return &ticketResourceRepository{storage: storage}
}

func (r *ticketResourceRepository) TicketIDsByUser(ctx context.Context, userID string) ([]string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("ticket_id").
		From("ticket_resources").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building ticket_resources lookup: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing ticket_resources lookup: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning ticket_resources row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket_resources rows: %w", err)
	}
	return ids, nil
}

func (r *ticketResourceRepository) ListByTicket(ctx context.Context, ticketID string) ([]*entities.TicketResource, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("ticket_id, user_id, is_main").
		From("ticket_resources").
		Where(sq.Eq{"ticket_id": ticketID}).
		OrderBy("is_main DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building ticket_resources list: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing ticket_resources list: %w", err)
	}
	defer rows.Close()

	resources := make([]*entities.TicketResource, 0)
	for rows.Next() {
		var res entities.TicketResource
		if err := rows.Scan(&res.TicketID, &res.UserID, &res.IsMain); err != nil {
			return nil, fmt.Errorf("scanning ticket_resources row: %w", err)
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket_resources rows: %w", err)
	}
	return resources, nil
}

func (r *ticketResourceRepository) Assign(ctx context.Context, res entities.TicketResource) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("ticket_resources").
		Columns("ticket_id", "user_id", "is_main").
		Values(res.TicketID, res.UserID, res.IsMain).
		Suffix("ON CONFLICT (ticket_id, user_id) DO UPDATE SET is_main = EXCLUDED.is_main").
		ToSql()
	if err != nil {
		return fmt.Errorf("building ticket_resources upsert: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting ticket_resources row: %w", err)
	}
	return nil
}

func (r *ticketResourceRepository) Unassign(ctx context.Context, ticketID, userID string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete("ticket_resources").
		Where(sq.Eq{"ticket_id": ticketID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building ticket_resources delete: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting ticket_resources row: %w", err)
	}
	return nil
}
