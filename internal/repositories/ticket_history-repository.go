package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
)

type TicketHistoryRepositoryInterface interface {
	Create(ctx context.Context, h entities.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]*entities.TicketHistory, error)
}

type ticketHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewTicketHistoryRepository(storage *pgxpool.Pool) TicketHistoryRepositoryInterface {
	return &ticketHistoryRepository{storage: storage}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, h entities.TicketHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("ticket_history").
		Columns("id", "ticket_id", "user_id", "from_status_id", "to_status_id", "note", "created_at").
		Values(h.ID, h.TicketID, h.UserID, h.FromStatusID, h.ToStatusID, h.Note, sq.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("building ticket_history insert: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting ticket_history row: %w", err)
	}
	return nil
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]*entities.TicketHistory, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, ticket_id, user_id, from_status_id, to_status_id, note, created_at").
		From("ticket_history").
		Where(sq.Eq{"ticket_id": ticketID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building ticket_history list: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing ticket_history list: %w", err)
	}
	defer rows.Close()

	history := make([]*entities.TicketHistory, 0)
	for rows.Next() {
		var h entities.TicketHistory
		if err := rows.Scan(&h.ID, &h.TicketID, &h.UserID, &h.FromStatusID, &h.ToStatusID, &h.Note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning ticket_history row: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket_history rows: %w", err)
	}
	return history, nil
}
