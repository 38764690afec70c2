package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/db"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

// InvitationService is the player-facing side of invitations.
type InvitationService interface {
	ListMine(ctx context.Context, actorID string) ([]*InvitationWithEvent, error)
	Respond(ctx context.Context, actorID, invitationID string, response InvitationStatus) (*Invitation, error)
}

type invitationService struct {
	events      Repository
	invitations InvitationRepository
	profiles    profile.Service
	tx          db.Transactor
	publisher   live.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(events Repository, invitations InvitationRepository, profiles profile.Service, tx db.Transactor, publisher live.Publisher, logger *slog.Logger) InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invitationService{
		events:      events,
		invitations: invitations,
		profiles:    profiles,
		tx:          tx,
		publisher:   publisher,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *invitationService) ListMine(ctx context.Context, actorID string) ([]*InvitationWithEvent, error) {
	p, err := s.profiles.RequireProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.invitations.ListByPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]string, len(invitations))
	for i, inv := range invitations {
		eventIDs[i] = inv.EventID
	}
	events, err := s.events.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*InvitationWithEvent, len(invitations))
	for i, inv := range invitations {
		out[i] = &InvitationWithEvent{Invitation: inv, Event: events[inv.EventID]}
	}
	return out, nil
}

// Respond records the caller's answer to one of their invitations.
//
// The event row stays locked from the capacity check until commit, so concurrent
// acceptances can never push the accepted count past the event's total capacity.
// A response after the deadline still commits the expiry before failing.
func (s *invitationService) Respond(ctx context.Context, actorID, invitationID string, response InvitationStatus) (*Invitation, error) {
	p, err := s.profiles.RequireProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := ParseResponse(string(response)); err != nil {
		return nil, err
	}

	var (
		inv       *Invitation
		expired   bool
		confirmed bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.pendingInvitation(ctx, invitationID, p.ID)
		if err != nil {
			return err
		}

		e, err := s.events.GetByIDForUpdate(ctx, inv.EventID)
		if err != nil {
			return err
		}

		// Re-read under the event lock in case a parallel request answered first.
		inv, err = s.pendingInvitation(ctx, invitationID, p.ID)
		if err != nil {
			return err
		}

		now := s.now()
		if now.After(e.InviteDeadline) {
			if err := s.invitations.UpdateStatus(ctx, inv.ID, InvitationExpired, now); err != nil {
				return err
			}
			inv.Status = InvitationExpired
			inv.RespondedAt = &now
			expired = true
			return nil
		}

		if response == InvitationAccepted {
			accepted, err := s.invitations.CountByStatus(ctx, e.ID, InvitationAccepted)
			if err != nil {
				return err
			}
			if accepted >= e.TotalCapacity {
				return ErrEventFull
			}
		}

		if err := s.invitations.UpdateStatus(ctx, inv.ID, response, now); err != nil {
			return err
		}
		inv.Status = response
		inv.RespondedAt = &now

		if response != InvitationAccepted {
			return nil
		}

		accepted, err := s.invitations.CountByStatus(ctx, e.ID, InvitationAccepted)
		if err != nil {
			return err
		}
		if accepted == e.TotalCapacity && e.Status.Confirmable() {
			if err := s.events.UpdateStatus(ctx, e.ID, StatusConfirmed); err != nil {
				return err
			}
			confirmed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{
		Type:         live.TypeInvitationResponded,
		EventID:      inv.EventID,
		InvitationID: inv.ID,
		Status:       string(inv.Status),
	})

	if expired {
		return nil, ErrDeadlineExpired
	}

	if confirmed {
		s.logger.InfoContext(ctx, "event confirmed", slog.String("event_id", inv.EventID))
		s.publisher.Publish(live.Notification{
			Type:    live.TypeEventStatusChanged,
			EventID: inv.EventID,
			Status:  string(StatusConfirmed),
		})
	}
	return inv, nil
}

// pendingInvitation loads an invitation owned by playerID that has not been answered yet.
func (s *invitationService) pendingInvitation(ctx context.Context, invitationID, playerID string) (*Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.PlayerID != playerID {
		return nil, ErrInvitationNotFound
	}
	if inv.Status != InvitationPending {
		return nil, ErrAlreadyResponded
	}
	return inv, nil
}
