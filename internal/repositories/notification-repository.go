package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n entities.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &notificationRepository{storage: storage}
}

func (r *notificationRepository) Create(ctx context.Context, n entities.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("notifications").
		Columns("id", "user_id", "title", "message", "read", "created_at").
		Values(n.ID, n.UserID, n.Title, n.Message, false, sq.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("building notifications insert: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting notifications row: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*entities.Notification, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(`id, user_id, title, message, "read", created_at`).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(100)
	if unreadOnly {
		builder = builder.Where(sq.Eq{"\"read\"": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building notifications list: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing notifications list: %w", err)
	}
	defer rows.Close()

	notifications := make([]*entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notifications row: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications rows: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("notifications").
		Set("\"read\"", true).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building notifications mark read: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
