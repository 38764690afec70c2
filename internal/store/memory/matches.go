package memory

import (
	"context"

	"github.com/nekogravitycat/tennis-league-backend/internal/match"
)

type matchRepository struct {
	s *Store
}

func (r *matchRepository) Create(ctx context.Context, m *match.Match) error {
	return r.s.write(ctx, func(d *data) error {
		m.ID = newID()
		m.CreatedAt = r.s.now()
		d.matches.insert(m.ID, cloneMatch(m))
		return nil
	})
}

func (r *matchRepository) GetByID(_ context.Context, id string) (*match.Match, error) {
	var found *match.Match
	r.s.read(func(d *data) {
		if m, ok := d.matches.rows[id]; ok {
			found = cloneMatch(m)
		}
	})
	if found == nil {
		return nil, match.ErrNotFound
	}
	return found, nil
}

func (r *matchRepository) List(_ context.Context, filter match.Filter) ([]*match.Match, error) {
	var out []*match.Match
	r.s.read(func(d *data) {
		d.matches.each(func(m *match.Match) {
			if filter.EventID != nil && m.EventID != *filter.EventID {
				return
			}
			if filter.PlayerID != nil && !m.HasPlayer(*filter.PlayerID) {
				return
			}
			if filter.Status != nil && m.Status != *filter.Status {
				return
			}
			out = append(out, cloneMatch(m))
		})
	})
	return out, nil
}

func (r *matchRepository) Update(ctx context.Context, m *match.Match) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.matches.rows[m.ID]
		if !ok {
			return match.ErrNotFound
		}
		in := cloneMatch(m)
		updated := cloneMatch(existing)
		updated.Status = in.Status
		updated.Scores = in.Scores
		updated.WinnerID = in.WinnerID
		updated.CompletedAt = in.CompletedAt
		d.matches.rows[m.ID] = updated
		return nil
	})
}

func (r *matchRepository) CountIncomplete(_ context.Context, eventID string) (int, error) {
	n := 0
	r.s.read(func(d *data) {
		for _, m := range d.matches.rows {
			if m.EventID == eventID && m.Status != match.StatusCompleted {
				n++
			}
		}
	})
	return n, nil
}
