package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// Repository defines methods for accessing matches.
type Repository interface {
	Create(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, id string) (*Match, error)
	List(ctx context.Context, filter Filter) ([]*Match, error)
	// Update persists status, scores, winner and completion time.
	Update(ctx context.Context, m *Match) error
	CountIncomplete(ctx context.Context, eventID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new match repository.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var matchColumns = []string{
	"id", "event_id", "court_id", "match_number", "player_ids::text[]",
	"status", "scores", "winner_id", "completed_at", "created_at",
}

func scanMatch(row pgx.Row) (*Match, error) {
	var (
		m      Match
		scores []byte
	)
	if err := row.Scan(
		&m.ID, &m.EventID, &m.CourtID, &m.MatchNumber, &m.PlayerIDs,
		&m.Status, &scores, &m.WinnerID, &m.CompletedAt, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &m.Scores); err != nil {
			return nil, fmt.Errorf("decode scores failed: %w", err)
		}
	}
	return &m, nil
}

func encodeScores(scores []Score) ([]byte, error) {
	if scores == nil {
		return nil, nil
	}
	b, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("encode scores failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Create(ctx context.Context, m *Match) error {
	scores, err := encodeScores(m.Scores)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert("public.matches").
		Columns("event_id", "court_id", "match_number", "player_ids", "status", "scores").
		Values(m.EventID, m.CourtID, m.MatchNumber, squirrel.Expr("?::text[]::uuid[]", m.PlayerIDs), m.Status, scores).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create match query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("create match failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Match, error) {
	query, args, err := psql.Select(matchColumns...).
		From("public.matches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get match query failed: %w", err)
	}

	m, err := scanMatch(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get match failed: %w", err)
	}
	return m, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Match, error) {
	qb := psql.Select(matchColumns...).From("public.matches")
	if filter.EventID != nil {
		qb = qb.Where(squirrel.Eq{"event_id": *filter.EventID})
	}
	if filter.PlayerID != nil {
		qb = qb.Where(squirrel.Expr("?::uuid = ANY(player_ids)", *filter.PlayerID))
	}
	if filter.Status != nil {
		qb = qb.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := qb.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list matches query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches failed: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match failed: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches failed: %w", err)
	}
	return matches, nil
}

func (r *pgxRepository) Update(ctx context.Context, m *Match) error {
	scores, err := encodeScores(m.Scores)
	if err != nil {
		return err
	}

	query, args, err := psql.Update("public.matches").
		Set("status", m.Status).
		Set("scores", scores).
		Set("winner_id", m.WinnerID).
		Set("completed_at", m.CompletedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update match query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CountIncomplete(ctx context.Context, eventID string) (int, error) {
	query, args, err := psql.Select("count(*)").
		From("public.matches").
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.NotEq{"status": StatusCompleted}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count matches query failed: %w", err)
	}

	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count matches failed: %w", err)
	}
	return n, nil
}
