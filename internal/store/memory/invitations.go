package memory

import (
	"context"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
)

type invitationRepository struct {
	s *Store
}

func (r *invitationRepository) Create(ctx context.Context, inv *event.Invitation) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.events.rows[inv.EventID]; !ok {
			return event.ErrNotFound
		}
		for _, existing := range d.invitations.rows {
			if existing.EventID == inv.EventID && existing.PlayerID == inv.PlayerID {
				return event.ErrAlreadyInvited
			}
		}
		inv.ID = newID()
		inv.InvitedAt = r.s.now()
		d.invitations.insert(inv.ID, cloneInvitation(inv))
		return nil
	})
}

func (r *invitationRepository) find(match func(inv *event.Invitation) bool) (*event.Invitation, error) {
	var found *event.Invitation
	r.s.read(func(d *data) {
		d.invitations.each(func(inv *event.Invitation) {
			if found == nil && match(inv) {
				found = cloneInvitation(inv)
			}
		})
	})
	if found == nil {
		return nil, event.ErrInvitationNotFound
	}
	return found, nil
}

func (r *invitationRepository) GetByID(_ context.Context, id string) (*event.Invitation, error) {
	return r.find(func(inv *event.Invitation) bool { return inv.ID == id })
}

func (r *invitationRepository) GetByEventAndPlayer(_ context.Context, eventID, playerID string) (*event.Invitation, error) {
	return r.find(func(inv *event.Invitation) bool {
		return inv.EventID == eventID && inv.PlayerID == playerID
	})
}

func (r *invitationRepository) list(match func(inv *event.Invitation) bool) []*event.Invitation {
	var out []*event.Invitation
	r.s.read(func(d *data) {
		d.invitations.each(func(inv *event.Invitation) {
			if match(inv) {
				out = append(out, cloneInvitation(inv))
			}
		})
	})
	return out
}

func (r *invitationRepository) ListByEvent(_ context.Context, eventID string) ([]*event.Invitation, error) {
	return r.list(func(inv *event.Invitation) bool { return inv.EventID == eventID }), nil
}

func (r *invitationRepository) ListByPlayer(_ context.Context, playerID string) ([]*event.Invitation, error) {
	return r.list(func(inv *event.Invitation) bool { return inv.PlayerID == playerID }), nil
}

func (r *invitationRepository) CountByStatus(_ context.Context, eventID string, status event.InvitationStatus) (int, error) {
	n := 0
	r.s.read(func(d *data) {
		for _, inv := range d.invitations.rows {
			if inv.EventID == eventID && inv.Status == status {
				n++
			}
		}
	})
	return n, nil
}

func (r *invitationRepository) StatsByEvents(_ context.Context, eventIDs []string) (map[string]event.InvitationStats, error) {
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}

	out := make(map[string]event.InvitationStats, len(eventIDs))
	r.s.read(func(d *data) {
		for _, inv := range d.invitations.rows {
			if !wanted[inv.EventID] {
				continue
			}
			stats := out[inv.EventID]
			stats.Add(inv.Status)
			out[inv.EventID] = stats
		}
	})
	return out, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id string, status event.InvitationStatus, respondedAt time.Time) error {
	return r.s.write(ctx, func(d *data) error {
		inv, ok := d.invitations.rows[id]
		if !ok {
			return event.ErrInvitationNotFound
		}
		inv.Status = status
		inv.RespondedAt = &respondedAt
		return nil
	})
}
