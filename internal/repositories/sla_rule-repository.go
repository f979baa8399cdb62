package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
)

const (
	slaRuleTable  = "sla_rules"
	slaRuleFields = "id, project_id, ticket_category_id, status_group_id, priority_id, weekday_id, sla_hours, warning, created_at, updated_at"
)

// SlaRuleRepositoryInterface exposes the three operations the matrix
// reconciliation needs: list for a (project, weekday) pair, delete by id,
// and bulk insert of the replacement set.
type SlaRuleRepositoryInterface interface {
	ListByProjectAndWeekday(ctx context.Context, projectID string, weekdayID int) ([]*entities.SlaRule, error)
	DeleteByID(ctx context.Context, id string) error
	CreateBatch(ctx context.Context, rules []entities.SlaRule) error
}

type slaRuleRepository struct {
	storage *pgxpool.Pool
}

func NewSlaRuleRepository(storage *pgxpool.Pool) SlaRuleRepositoryInterface {
	return &slaRuleRepository{storage: storage}
}

func (r *slaRuleRepository) ListByProjectAndWeekday(ctx context.Context, projectID string, weekdayID int) ([]*entities.SlaRule, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(slaRuleFields).
		From(slaRuleTable).
		Where(sq.Eq{"project_id": projectID, "weekday_id": weekdayID}).
		OrderBy("ticket_category_id, status_group_id, priority_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building sla_rules list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing sla_rules list: %w", err)
	}
	defer rows.Close()

	rules := make([]*entities.SlaRule, 0)
	for rows.Next() {
		rule, err := scanSlaRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sla_rules rows: %w", err)
	}
	return rules, nil
}

func scanSlaRule(row pgx.Row) (*entities.SlaRule, error) {
	var rule entities.SlaRule
	err := row.Scan(
		&rule.ID, &rule.ProjectID, &rule.TicketCategoryID, &rule.StatusGroupID,
		&rule.PriorityID, &rule.WeekdayID, &rule.SlaHours, &rule.Warning,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning sla_rules row: %w", err)
	}
	return &rule, nil
}

func (r *slaRuleRepository) DeleteByID(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(slaRuleTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building sla_rules delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting sla_rules row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *slaRuleRepository) CreateBatch(ctx context.Context, rules []entities.SlaRule) error {
	if len(rules) == 0 {
		return nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert(slaRuleTable).
		Columns("id", "project_id", "ticket_category_id", "status_group_id", "priority_id",
			"weekday_id", "sla_hours", "warning", "created_at", "updated_at")
	for _, rule := range rules {
		builder = builder.Values(rule.ID, rule.ProjectID, rule.TicketCategoryID,
			rule.StatusGroupID, rule.PriorityID, rule.WeekdayID, rule.SlaHours,
			rule.Warning, sq.Expr("NOW()"), sq.Expr("NOW()"))
	}
	builder = builder.Suffix(`ON CONFLICT (project_id, ticket_category_id, status_group_id, priority_id, weekday_id)
		DO UPDATE SET sla_hours = EXCLUDED.sla_hours, warning = EXCLUDED.warning, updated_at = NOW()`)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("building sla_rules batch insert: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting sla_rules batch: %w", err)
	}
	return nil
}
