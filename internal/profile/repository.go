package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// Repository defines methods for accessing profile data.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByExternalUserID(ctx context.Context, externalUserID string) (*Profile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error)
	List(ctx context.Context, filter Filter) ([]*Profile, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	Update(ctx context.Context, p *Profile) error
	// BackfillSkillLevel sets level on every profile without one and returns the number updated.
	BackfillSkillLevel(ctx context.Context, level SkillLevel) (int, error)
	// LockRoleBootstrap serializes bootstrap-admin checks until the surrounding transaction ends.
	LockRoleBootstrap(ctx context.Context) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new profile repository.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var profileColumns = []string{
	"id", "external_user_id", "role", "first_name", "last_name",
	"phone", "skill_level", "is_active", "created_at",
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(
		&p.ID, &p.ExternalUserID, &p.Role, &p.FirstName, &p.LastName,
		&p.Phone, &p.SkillLevel, &p.IsActive, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Profile) error {
	query, args, err := psql.Insert("public.profiles").
		Columns("external_user_id", "role", "first_name", "last_name", "phone", "skill_level", "is_active").
		Values(p.ExternalUserID, p.Role, p.FirstName, p.LastName, p.Phone, p.SkillLevel, p.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create profile query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrProfileExists
		}
		return fmt.Errorf("create profile failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, where squirrel.Eq) (*Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("public.profiles").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile query failed: %w", err)
	}

	p, err := scanProfile(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByExternalUserID(ctx context.Context, externalUserID string) (*Profile, error) {
	return r.get(ctx, squirrel.Eq{"external_user_id": externalUserID})
}

func (r *pgxRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	list, err := r.list(ctx, psql.Select(profileColumns...).
		From("public.profiles").
		Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Profile, error) {
	qb := psql.Select(profileColumns...).From("public.profiles")
	if filter.Role != nil {
		qb = qb.Where(squirrel.Eq{"role": *filter.Role})
	}
	if filter.IsActive != nil {
		qb = qb.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	return r.list(ctx, qb.OrderBy("created_at ASC", "id ASC"))
}

func (r *pgxRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]*Profile, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles failed: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile failed: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles failed: %w", err)
	}
	return profiles, nil
}

func (r *pgxRepository) CountByRole(ctx context.Context, role Role) (int, error) {
	query, args, err := psql.Select("count(*)").
		From("public.profiles").
		Where(squirrel.Eq{"role": role}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count profiles query failed: %w", err)
	}

	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Profile) error {
	query, args, err := psql.Update("public.profiles").
		Set("role", p.Role).
		Set("first_name", p.FirstName).
		Set("last_name", p.LastName).
		Set("phone", p.Phone).
		Set("skill_level", p.SkillLevel).
		Set("is_active", p.IsActive).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) BackfillSkillLevel(ctx context.Context, level SkillLevel) (int, error) {
	query, args, err := psql.Update("public.profiles").
		Set("skill_level", level).
		Where(squirrel.Eq{"skill_level": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build backfill skill level query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("backfill skill level failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) LockRoleBootstrap(ctx context.Context) error {
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('profiles_admin_bootstrap'))"); err != nil {
		return fmt.Errorf("acquire bootstrap lock failed: %w", err)
	}
	return nil
}
