package memory

import (
	"context"
	"sort"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
)

type eventRepository struct {
	s *Store
}

func (r *eventRepository) Create(ctx context.Context, e *event.Event) error {
	return r.s.write(ctx, func(d *data) error {
		e.ID = newID()
		e.CreatedAt = r.s.now()
		d.events.insert(e.ID, cloneEvent(e))
		return nil
	})
}

func (r *eventRepository) GetByID(_ context.Context, id string) (*event.Event, error) {
	var found *event.Event
	r.s.read(func(d *data) {
		if e, ok := d.events.rows[id]; ok {
			found = cloneEvent(e)
		}
	})
	if found == nil {
		return nil, event.ErrNotFound
	}
	return found, nil
}

// GetByIDForUpdate needs no row lock: transactions already run one at a time.
func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*event.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *eventRepository) GetByIDs(_ context.Context, ids []string) (map[string]*event.Event, error) {
	var out map[string]*event.Event
	r.s.read(func(d *data) {
		out = pick(&d.events, ids, cloneEvent)
	})
	return out, nil
}

func (r *eventRepository) List(_ context.Context, filter event.Filter) ([]*event.Event, error) {
	var out []*event.Event
	r.s.read(func(d *data) {
		d.events.each(func(e *event.Event) {
			if filter.OrganizerID != nil && e.OrganizerID != *filter.OrganizerID {
				return
			}
			if filter.MatchmakerID != nil && e.MatchmakerID != *filter.MatchmakerID {
				return
			}
			out = append(out, cloneEvent(e))
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status event.Status) error {
	return r.s.write(ctx, func(d *data) error {
		e, ok := d.events.rows[id]
		if !ok {
			return event.ErrNotFound
		}
		e.Status = status
		return nil
	})
}

func (r *eventRepository) UpdateTotalCapacity(ctx context.Context, id string, capacity int) error {
	return r.s.write(ctx, func(d *data) error {
		e, ok := d.events.rows[id]
		if !ok {
			return event.ErrNotFound
		}
		e.TotalCapacity = capacity
		return nil
	})
}

func (r *eventRepository) CreateCourt(ctx context.Context, c *event.Court) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.events.rows[c.EventID]; !ok {
			return event.ErrNotFound
		}
		c.ID = newID()
		c.CreatedAt = r.s.now()
		d.courts.insert(c.ID, cloneCourt(c))
		return nil
	})
}

func (r *eventRepository) GetCourt(_ context.Context, id string) (*event.Court, error) {
	var found *event.Court
	r.s.read(func(d *data) {
		if c, ok := d.courts.rows[id]; ok {
			found = cloneCourt(c)
		}
	})
	if found == nil {
		return nil, event.ErrCourtNotFound
	}
	return found, nil
}

func (r *eventRepository) GetCourtsByIDs(_ context.Context, ids []string) (map[string]*event.Court, error) {
	var out map[string]*event.Court
	r.s.read(func(d *data) {
		out = pick(&d.courts, ids, cloneCourt)
	})
	return out, nil
}

func (r *eventRepository) ListCourts(_ context.Context, eventID string) ([]*event.Court, error) {
	var out []*event.Court
	r.s.read(func(d *data) {
		d.courts.each(func(c *event.Court) {
			if c.EventID == eventID {
				out = append(out, cloneCourt(c))
			}
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CourtNumber < out[j].CourtNumber
	})
	return out, nil
}

func (r *eventRepository) SumCourtCapacity(_ context.Context, eventID string) (int, error) {
	total := 0
	r.s.read(func(d *data) {
		for _, c := range d.courts.rows {
			if c.EventID == eventID {
				total += c.Capacity
			}
		}
	})
	return total, nil
}
