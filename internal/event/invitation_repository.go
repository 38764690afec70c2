package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// InvitationRepository defines methods for accessing invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByEventAndPlayer(ctx context.Context, eventID, playerID string) (*Invitation, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*Invitation, error)
	CountByStatus(ctx context.Context, eventID string, status InvitationStatus) (int, error)
	StatsByEvents(ctx context.Context, eventIDs []string) (map[string]InvitationStats, error)
	UpdateStatus(ctx context.Context, id string, status InvitationStatus, respondedAt time.Time) error
}

type pgxInvitationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxInvitationRepository creates a new invitation repository.
func NewPgxInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgxInvitationRepository{pool: pool}
}

var invitationColumns = []string{"id", "event_id", "player_id", "status", "invited_at", "responded_at"}

func scanInvitation(row pgx.Row) (*Invitation, error) {
	var inv Invitation
	if err := row.Scan(&inv.ID, &inv.EventID, &inv.PlayerID, &inv.Status, &inv.InvitedAt, &inv.RespondedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *pgxInvitationRepository) Create(ctx context.Context, inv *Invitation) error {
	query, args, err := psql.Insert("public.invitations").
		Columns("event_id", "player_id", "status").
		Values(inv.EventID, inv.PlayerID, inv.Status).
		Suffix("RETURNING id, invited_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create invitation query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&inv.ID, &inv.InvitedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyInvited
		}
		return fmt.Errorf("create invitation failed: %w", err)
	}
	return nil
}

func (r *pgxInvitationRepository) get(ctx context.Context, where squirrel.Eq) (*Invitation, error) {
	query, args, err := psql.Select(invitationColumns...).
		From("public.invitations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get invitation query failed: %w", err)
	}

	inv, err := scanInvitation(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	return inv, nil
}

func (r *pgxInvitationRepository) GetByID(ctx context.Context, id string) (*Invitation, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *pgxInvitationRepository) GetByEventAndPlayer(ctx context.Context, eventID, playerID string) (*Invitation, error) {
	return r.get(ctx, squirrel.Eq{"event_id": eventID, "player_id": playerID})
}

func (r *pgxInvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error) {
	return r.list(ctx, squirrel.Eq{"event_id": eventID})
}

func (r *pgxInvitationRepository) ListByPlayer(ctx context.Context, playerID string) ([]*Invitation, error) {
	return r.list(ctx, squirrel.Eq{"player_id": playerID})
}

func (r *pgxInvitationRepository) list(ctx context.Context, where squirrel.Eq) ([]*Invitation, error) {
	query, args, err := psql.Select(invitationColumns...).
		From("public.invitations").
		Where(where).
		OrderBy("invited_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list invitations query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invitations failed: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation failed: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations failed: %w", err)
	}
	return invitations, nil
}

func (r *pgxInvitationRepository) CountByStatus(ctx context.Context, eventID string, status InvitationStatus) (int, error) {
	query, args, err := psql.Select("count(*)").
		From("public.invitations").
		Where(squirrel.Eq{"event_id": eventID, "status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count invitations query failed: %w", err)
	}

	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invitations failed: %w", err)
	}
	return n, nil
}

func (r *pgxInvitationRepository) StatsByEvents(ctx context.Context, eventIDs []string) (map[string]InvitationStats, error) {
	out := make(map[string]InvitationStats, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("event_id", "status", "count(*)").
		From("public.invitations").
		Where(squirrel.Eq{"event_id": eventIDs}).
		GroupBy("event_id", "status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build invitation stats query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("invitation stats failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventID string
			status  InvitationStatus
			n       int
		)
		if err := rows.Scan(&eventID, &status, &n); err != nil {
			return nil, fmt.Errorf("scan invitation stats failed: %w", err)
		}
		stats := out[eventID]
		for range n {
			stats.Add(status)
		}
		out[eventID] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitation stats failed: %w", err)
	}
	return out, nil
}

func (r *pgxInvitationRepository) UpdateStatus(ctx context.Context, id string, status InvitationStatus, respondedAt time.Time) error {
	query, args, err := psql.Update("public.invitations").
		Set("status", status).
		Set("responded_at", respondedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update invitation query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update invitation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
