package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

const ticketJoinedFields = `
	t.id, t.external_id, t.title, t.description, t.is_private, t.created_at,
	pa.id AS partner_id, pa.name AS partner_name,
	pr.id AS project_id, pr.name AS project_name,
	c.id AS category_id, c.name AS category_name,
	s.id AS status_id, s.name AS status_name,
	p.id AS priority_id, p.name AS priority_name,
	creator.id AS creator_id, creator.name AS creator_name,
	main_res.id AS main_resource_id, main_res.name AS main_resource_name`

type TicketRepositoryInterface interface {
	List(ctx context.Context, filter entities.TicketFilter, pagination types.Filter) ([]dto.TicketDTO, uint64, error)
	FindByID(ctx context.Context, id string) (*dto.TicketDTO, error)
	Create(ctx context.Context, t entities.Ticket) (string, error)
	Update(ctx context.Context, id string, t entities.Ticket) error
	SoftDelete(ctx context.Context, id string) error
	FindEntity(ctx context.Context, id string) (*entities.Ticket, error)
}

type ticketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &ticketRepository{storage: storage, logger: logger}
}

// applyTicketFilter translates the combined predicate into WHERE clauses.
// Mandatory and optional conditions compose conjunctively; the builder has
// no way to express OR between them, which is the point.
func applyTicketFilter(b sq.SelectBuilder, f entities.TicketFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"t.deleted_at": nil})

	if f.PartnerID != "" {
		b = b.Where(sq.Eq{"t.partner_id": f.PartnerID})
	}
	if f.TicketIDs != nil {
		b = b.Where(sq.Eq{"t.id": f.TicketIDs})
	}

	if f.ExternalID != nil {
		b = b.Where(sq.Eq{"t.external_id": *f.ExternalID})
	}
	if f.TitleSearch != "" {
		b = b.Where(sq.ILike{"t.title": "%" + f.TitleSearch + "%"})
	}
	if f.CategoryID != "" {
		b = b.Where(sq.Eq{"t.category_id": f.CategoryID})
	}
	if f.StatusID != "" {
		b = b.Where(sq.Eq{"t.status_id": f.StatusID})
	}
	if f.PriorityID != "" {
		b = b.Where(sq.Eq{"t.priority_id": f.PriorityID})
	}
	if f.ProjectID != "" {
		b = b.Where(sq.Eq{"t.project_id": f.ProjectID})
	}
	if f.CreatedBy != "" {
		b = b.Where(sq.Eq{"t.created_by": f.CreatedBy})
	}
	if f.IsPrivate != nil {
		b = b.Where(sq.Eq{"t.is_private": *f.IsPrivate})
	}
	if f.CreatedAfter != nil {
		b = b.Where(sq.GtOrEq{"t.created_at": *f.CreatedAfter})
	}
	return b
}

func ticketJoins(b sq.SelectBuilder) sq.SelectBuilder {
	return b.
		LeftJoin("partners pa ON t.partner_id = pa.id").
		LeftJoin("projects pr ON t.project_id = pr.id").
		LeftJoin("ticket_categories c ON t.category_id = c.id").
		LeftJoin("ticket_statuses s ON t.status_id = s.id").
		LeftJoin("priorities p ON t.priority_id = p.id").
		LeftJoin("users creator ON t.created_by = creator.id").
		LeftJoin(`users main_res ON main_res.id = (
			SELECT tr.user_id FROM ticket_resources tr
			WHERE tr.ticket_id = t.id AND tr.is_main = true LIMIT 1)`)
}

func scanTicketRow(row pgx.Row) (*dto.TicketDTO, error) {
	var t dto.TicketDTO
	var createdAt time.Time
	var mainResID, mainResName sql.NullString

	err := row.Scan(
		&t.ID, &t.ExternalID, &t.Title, &t.Description, &t.IsPrivate, &createdAt,
		&t.Partner.ID, &t.Partner.Name,
		&t.Project.ID, &t.Project.Name,
		&t.Category.ID, &t.Category.Name,
		&t.Status.ID, &t.Status.Name,
		&t.Priority.ID, &t.Priority.Name,
		&t.Creator.ID, &t.Creator.Name,
		&mainResID, &mainResName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning tickets row: %w", err)
	}

	if mainResID.Valid {
		t.MainResource = &dto.ShortUserDTO{ID: mainResID.String, Name: mainResName.String}
	}
	t.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context, filter entities.TicketFilter, pagination types.Filter) ([]dto.TicketDTO, uint64, error) {
	// Fail-closed short circuit: a forced-empty predicate never reaches SQL.
	if filter.ForceEmpty {
		return []dto.TicketDTO{}, 0, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := applyTicketFilter(psql.Select("COUNT(t.id)").From("tickets t"), filter)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building tickets count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("executing tickets count: %w", err)
	}
	if total == 0 {
		return []dto.TicketDTO{}, 0, nil
	}

	builder := ticketJoins(applyTicketFilter(psql.Select(ticketJoinedFields).From("tickets t"), filter)).
		OrderBy("t.created_at DESC")

	if pagination.WithPagination {
		if pagination.Limit > 0 {
			builder = builder.Limit(uint64(pagination.Limit))
		}
		if pagination.Offset > 0 {
			builder = builder.Offset(uint64(pagination.Offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building tickets select query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("executing tickets select: %w", err)
	}
	defer rows.Close()

	tickets := make([]dto.TicketDTO, 0)
	for rows.Next() {
		t, err := scanTicketRow(rows)
		if err != nil {
			r.logger.Error("scanning ticket", zap.Error(err))
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating tickets rows: %w", err)
	}

	return tickets, total, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*dto.TicketDTO, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := ticketJoins(psql.Select(ticketJoinedFields).From("tickets t")).
		Where(sq.Eq{"t.id": id, "t.deleted_at": nil})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building tickets find query: %w", err)
	}
	return scanTicketRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) FindEntity(ctx context.Context, id string) (*entities.Ticket, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id, external_id, title, description, partner_id, project_id, category_id, type_id, status_id, priority_id, created_by, is_private, created_at, updated_at, deleted_at").
		From("tickets").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building tickets entity query: %w", err)
	}

	var t entities.Ticket
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.ExternalID, &t.Title, &t.Description, &t.PartnerID, &t.ProjectID,
		&t.CategoryID, &t.TypeID, &t.StatusID, &t.PriorityID, &t.CreatedBy,
		&t.IsPrivate, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning tickets entity row: %w", err)
	}
	return &t, nil
}

func (r *ticketRepository) Create(ctx context.Context, t entities.Ticket) (string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("tickets").
		Columns("id", "external_id", "title", "description", "partner_id", "project_id",
			"category_id", "type_id", "status_id", "priority_id", "created_by", "is_private",
			"created_at", "updated_at").
		Values(t.ID, sq.Expr("nextval('ticket_external_id_seq')"), t.Title, t.Description,
			t.PartnerID, t.ProjectID, t.CategoryID, t.TypeID, t.StatusID, t.PriorityID,
			t.CreatedBy, t.IsPrivate, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building tickets insert: %w", err)
	}

	var newID string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return "", fmt.Errorf("inserting tickets row: %w", err)
	}
	return newID, nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, t entities.Ticket) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("tickets").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("category_id", t.CategoryID).
		Set("status_id", t.StatusID).
		Set("priority_id", t.PriorityID).
		Set("is_private", t.IsPrivate).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building tickets update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating tickets row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) SoftDelete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("tickets").
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building tickets soft delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("soft deleting tickets row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
