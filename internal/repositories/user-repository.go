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
	"go.uber.org/zap"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

const (
	userTable  = "users"
	userFields = "id, name, email, password, role, is_client, partner_id, active, created_at, updated_at"
)

// allowedUserFilters is the whitelist for dynamic filtering.
var allowedUserFilters = map[string]string{
	"id":         "id",
	"role":       "role",
	"is_client":  "is_client",
	"partner_id": "partner_id",
	"active":     "active",
}

var allowedUserSortFields = map[string]bool{
	"name":       true,
	"email":      true,
	"created_at": true,
	"role":       true,
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error)
	Create(ctx context.Context, u entities.User) (string, error)
	Update(ctx context.Context, id string, u entities.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func (r *userRepository) scanRow(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.IsClient,
		&u.PartnerID, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning users row: %w", err)
	}
	return &u, nil
}

func (r *userRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(userFields).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building findOne users query: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

func (r *userRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"email": pattern}})
		}
		for key, value := range filter.Filter {
			if dbColumn, ok := allowedUserFilters[key]; ok {
				if items, ok := value.(string); ok && strings.Contains(items, ",") {
					b = b.Where(sq.Eq{dbColumn: strings.Split(items, ",")})
				} else {
					b = b.Where(sq.Eq{dbColumn: value})
				}
			}
		}
		return b
	}

	countQuery, countArgs, err := applyWhere(psql.Select("COUNT(id)").From(userTable)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building users count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("executing users count: %w", err)
	}
	if total == 0 {
		return []*entities.User{}, 0, nil
	}

	builder := applyWhere(psql.Select(userFields).From(userTable))

	if len(filter.Sort) > 0 {
		for field, direction := range filter.Sort {
			if allowedUserSortFields[field] {
				safeDirection := "ASC"
				if strings.EqualFold(direction, "DESC") {
					safeDirection = "DESC"
				}
				builder = builder.OrderBy(field + " " + safeDirection)
			}
		}
	} else {
		builder = builder.OrderBy("created_at DESC")
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
		return nil, 0, fmt.Errorf("building users select query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("executing users select: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("scanning user", zap.Error(err))
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating users rows: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, u entities.User) (string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(userTable).
		Columns("id", "name", "email", "password", "role", "is_client", "partner_id", "active", "created_at", "updated_at").
		Values(u.ID, u.Name, u.Email, u.Password, u.Role, u.IsClient, u.PartnerID, true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building users insert: %w", err)
	}

	var newID string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("user with this email already exists: %w", apperrors.ErrConflict)
		}
		return "", fmt.Errorf("inserting users row: %w", err)
	}
	return newID, nil
}

func (r *userRepository) Update(ctx context.Context, id string, u entities.User) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(userTable).
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", u.Role).
		Set("is_client", u.IsClient).
		Set("partner_id", u.PartnerID).
		Set("active", u.Active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building users update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with this email already exists: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("updating users row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(userTable).
		Set("active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building users deactivate: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivating users row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
