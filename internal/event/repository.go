package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// Repository defines methods for accessing events and their courts.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDForUpdate locks the event row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateTotalCapacity(ctx context.Context, id string, capacity int) error

	CreateCourt(ctx context.Context, c *Court) error
	GetCourt(ctx context.Context, id string) (*Court, error)
	GetCourtsByIDs(ctx context.Context, ids []string) (map[string]*Court, error)
	ListCourts(ctx context.Context, eventID string) ([]*Court, error)
	SumCourtCapacity(ctx context.Context, eventID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new event repository.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var eventColumns = []string{
	"id", "name", "to_char(date, 'YYYY-MM-DD')", "location", "to_char(start_time, 'HH24:MI')",
	"courts_reserved", "matches_per_court", "matchmaker_id", "organizer_id", "status",
	"invite_deadline", "total_capacity", "created_at",
}

var courtColumns = []string{
	"id", "event_id", "court_number", "label", "surface_type", "capacity", "created_at",
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	if err := row.Scan(
		&e.ID, &e.Name, &e.Date, &e.Location, &e.StartTime,
		&e.CourtsReserved, &e.MatchesPerCourt, &e.MatchmakerID, &e.OrganizerID, &e.Status,
		&e.InviteDeadline, &e.TotalCapacity, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanCourt(row pgx.Row) (*Court, error) {
	var c Court
	if err := row.Scan(&c.ID, &c.EventID, &c.CourtNumber, &c.Label, &c.SurfaceType, &c.Capacity, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ------------------------
//   Event methods
// ------------------------

func (r *pgxRepository) Create(ctx context.Context, e *Event) error {
	query, args, err := psql.Insert("public.events").
		Columns(
			"name", "date", "location", "start_time", "courts_reserved", "matches_per_court",
			"matchmaker_id", "organizer_id", "status", "invite_deadline", "total_capacity",
		).
		Values(
			e.Name, squirrel.Expr("?::text::date", e.Date), e.Location, squirrel.Expr("?::text::time", e.StartTime),
			e.CourtsReserved, e.MatchesPerCourt, e.MatchmakerID, e.OrganizerID, e.Status,
			e.InviteDeadline, e.TotalCapacity,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create event query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create event failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getEvent(ctx context.Context, id string, suffix string) (*Event, error) {
	qb := psql.Select(eventColumns...).
		From("public.events").
		Where(squirrel.Eq{"id": id})
	if suffix != "" {
		qb = qb.Suffix(suffix)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event query failed: %w", err)
	}

	e, err := scanEvent(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	return e, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	return r.getEvent(ctx, id, "")
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, id string) (*Event, error) {
	return r.getEvent(ctx, id, "FOR UPDATE")
}

func (r *pgxRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Event, error) {
	out := make(map[string]*Event, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	events, err := r.listEvents(ctx, psql.Select(eventColumns...).
		From("public.events").
		Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		out[e.ID] = e
	}
	return out, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Event, error) {
	qb := psql.Select(eventColumns...).From("public.events")
	if filter.OrganizerID != nil {
		qb = qb.Where(squirrel.Eq{"organizer_id": *filter.OrganizerID})
	}
	if filter.MatchmakerID != nil {
		qb = qb.Where(squirrel.Eq{"matchmaker_id": *filter.MatchmakerID})
	}
	return r.listEvents(ctx, qb.OrderBy("date ASC", "start_time ASC", "created_at ASC"))
}

func (r *pgxRepository) listEvents(ctx context.Context, qb squirrel.SelectBuilder) ([]*Event, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events failed: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event failed: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events failed: %w", err)
	}
	return events, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.patch(ctx, id, "status", status)
}

func (r *pgxRepository) UpdateTotalCapacity(ctx context.Context, id string, capacity int) error {
	return r.patch(ctx, id, "total_capacity", capacity)
}

func (r *pgxRepository) patch(ctx context.Context, id, column string, value any) error {
	query, args, err := psql.Update("public.events").
		Set(column, value).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event %s failed: %w", column, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------
//   Court methods
// ------------------------

func (r *pgxRepository) CreateCourt(ctx context.Context, c *Court) error {
	query, args, err := psql.Insert("public.courts").
		Columns("event_id", "court_number", "label", "surface_type", "capacity").
		Values(c.EventID, c.CourtNumber, c.Label, c.SurfaceType, c.Capacity).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create court query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create court failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetCourt(ctx context.Context, id string) (*Court, error) {
	query, args, err := psql.Select(courtColumns...).
		From("public.courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get court query failed: %w", err)
	}

	c, err := scanCourt(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("get court failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) GetCourtsByIDs(ctx context.Context, ids []string) (map[string]*Court, error) {
	out := make(map[string]*Court, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	courts, err := r.listCourts(ctx, psql.Select(courtColumns...).
		From("public.courts").
		Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, c := range courts {
		out[c.ID] = c
	}
	return out, nil
}

func (r *pgxRepository) ListCourts(ctx context.Context, eventID string) ([]*Court, error) {
	return r.listCourts(ctx, psql.Select(courtColumns...).
		From("public.courts").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("court_number ASC", "created_at ASC"))
}

func (r *pgxRepository) listCourts(ctx context.Context, qb squirrel.SelectBuilder) ([]*Court, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courts query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courts failed: %w", err)
	}
	defer rows.Close()

	var courts []*Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan court failed: %w", err)
		}
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courts failed: %w", err)
	}
	return courts, nil
}

func (r *pgxRepository) SumCourtCapacity(ctx context.Context, eventID string) (int, error) {
	query, args, err := psql.Select("COALESCE(SUM(capacity), 0)").
		From("public.courts").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum capacity query failed: %w", err)
	}

	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum court capacity failed: %w", err)
	}
	return total, nil
}
