package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// Repository defines methods for accessing account data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Account, error)
	Create(ctx context.Context, a *Account) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) get(ctx context.Context, where squirrel.Eq) (*Account, error) {
	query, args, err := psql.Select("id", "email", "password_hash", "created_at", "last_login_at").
		From("public.accounts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get account query failed: %w", err)
	}

	var a Account
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.LastLoginAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.get(ctx, squirrel.Eq{"email": email})
}

// GetByIDs ignores ids that are not UUIDs; profiles backed by an external
// identity provider never have a local account.
func (r *pgxRepository) GetByIDs(ctx context.Context, ids []string) ([]*Account, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select("id", "email", "password_hash", "created_at", "last_login_at").
		From("public.accounts").
		Where(squirrel.Eq{"id": valid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts failed: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.LastLoginAt); err != nil {
			return nil, fmt.Errorf("scan account failed: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts failed: %w", err)
	}
	return accounts, nil
}

func (r *pgxRepository) Create(ctx context.Context, a *Account) error {
	query, args, err := psql.Insert("public.accounts").
		Columns("email", "password_hash").
		Values(a.Email, a.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create account query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create account failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	query, args, err := psql.Update("public.accounts").
		Set("last_login_at", t).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
