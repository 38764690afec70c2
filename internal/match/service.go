package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/db"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

// CreateInput places players on a court slot of a confirmed event.
type CreateInput struct {
	EventID     string
	CourtID     string
	MatchNumber int
	PlayerIDs   []string
}

// ScoreInput is the final result of a match.
type ScoreInput struct {
	Scores   []Score
	WinnerID string
}

// Service manages matches and completes events once every match has a result.
type Service interface {
	Create(ctx context.Context, actorID string, in CreateInput) (*Match, error)
	ListByEvent(ctx context.Context, actorID, eventID string) ([]*Details, error)
	RecordScore(ctx context.Context, actorID, matchID string, in ScoreInput) (*Match, error)
	ListMine(ctx context.Context, actorID string) ([]*Details, error)
}

type service struct {
	repo        Repository
	events      event.Repository
	invitations event.InvitationRepository
	profiles    profile.Service
	tx          db.Transactor
	publisher   live.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new match service.
func NewService(repo Repository, events event.Repository, invitations event.InvitationRepository, profiles profile.Service, tx db.Transactor, publisher live.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:        repo,
		events:      events,
		invitations: invitations,
		profiles:    profiles,
		tx:          tx,
		publisher:   publisher,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create does not reject a second match on the same court and match number.
func (s *service) Create(ctx context.Context, actorID string, in CreateInput) (*Match, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleMatchmaker); err != nil {
		return nil, err
	}
	if in.MatchNumber < 1 {
		return nil, ErrInvalidMatchNumber
	}

	m := &Match{
		EventID:     in.EventID,
		CourtID:     in.CourtID,
		MatchNumber: in.MatchNumber,
		PlayerIDs:   in.PlayerIDs,
		Status:      StatusScheduled,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.events.GetByIDForUpdate(ctx, in.EventID)
		if err != nil {
			return err
		}
		if e.Status != event.StatusConfirmed {
			return ErrEventNotConfirmed
		}

		court, err := s.events.GetCourt(ctx, in.CourtID)
		if err != nil {
			if errors.Is(err, event.ErrCourtNotFound) {
				return ErrCourtMismatch
			}
			return err
		}
		if court.EventID != e.ID {
			return ErrCourtMismatch
		}

		if len(in.PlayerIDs) != court.Capacity {
			return apperror.Validation(fmt.Sprintf("Court requires exactly %d players", court.Capacity))
		}

		if err := s.checkPlayers(ctx, e.ID, in.PlayerIDs); err != nil {
			return err
		}

		return s.repo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{Type: live.TypeMatchCreated, EventID: m.EventID, MatchID: m.ID})
	return m, nil
}

// checkPlayers requires distinct players that all accepted their invitation.
func (s *service) checkPlayers(ctx context.Context, eventID string, playerIDs []string) error {
	invitations, err := s.invitations.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	accepted := make(map[string]bool, len(invitations))
	for _, inv := range invitations {
		if inv.Status == event.InvitationAccepted {
			accepted[inv.PlayerID] = true
		}
	}

	seen := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		if !accepted[id] {
			return ErrPlayerNotConfirmed
		}
		if seen[id] {
			return ErrDuplicatePlayer
		}
		seen[id] = true
	}
	return nil
}

func (s *service) ListByEvent(ctx context.Context, actorID, eventID string) ([]*Details, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleMatchmaker, profile.RoleOrganizer); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	matches, err := s.repo.List(ctx, Filter{EventID: &eventID})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, matches)
}

// RecordScore completes a match. When it was the last open match of its event,
// the event is completed in the same transaction.
func (s *service) RecordScore(ctx context.Context, actorID, matchID string, in ScoreInput) (*Match, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleMatchmaker); err != nil {
		return nil, err
	}
	for _, sc := range in.Scores {
		if sc.Set < 1 || sc.Player1Score < 0 || sc.Player2Score < 0 {
			return nil, ErrInvalidScore
		}
	}

	var (
		m              *Match
		eventCompleted bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.repo.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if !m.HasPlayer(in.WinnerID) {
			return ErrWinnerNotPlayer
		}

		e, err := s.events.GetByIDForUpdate(ctx, m.EventID)
		if err != nil {
			return err
		}

		now := s.now()
		winner := in.WinnerID
		m.Scores = in.Scores
		m.WinnerID = &winner
		m.Status = StatusCompleted
		m.CompletedAt = &now
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}

		open, err := s.repo.CountIncomplete(ctx, e.ID)
		if err != nil {
			return err
		}
		if open == 0 && e.Status != event.StatusCompleted {
			if err := s.events.UpdateStatus(ctx, e.ID, event.StatusCompleted); err != nil {
				return err
			}
			eventCompleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{Type: live.TypeMatchCompleted, EventID: m.EventID, MatchID: m.ID})
	if eventCompleted {
		s.logger.InfoContext(ctx, "event completed", slog.String("event_id", m.EventID))
		s.publisher.Publish(live.Notification{
			Type:    live.TypeEventStatusChanged,
			EventID: m.EventID,
			Status:  string(event.StatusCompleted),
		})
	}
	return m, nil
}

func (s *service) ListMine(ctx context.Context, actorID string) ([]*Details, error) {
	p, err := s.profiles.RequireProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	matches, err := s.repo.List(ctx, Filter{PlayerID: &p.ID})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, matches)
}

// resolve loads the events, courts and players referenced by matches in three batch reads.
func (s *service) resolve(ctx context.Context, matches []*Match) ([]*Details, error) {
	var eventIDs, courtIDs, playerIDs []string
	for _, m := range matches {
		eventIDs = append(eventIDs, m.EventID)
		courtIDs = append(courtIDs, m.CourtID)
		playerIDs = append(playerIDs, m.PlayerIDs...)
	}

	events, err := s.events.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	courts, err := s.events.GetCourtsByIDs(ctx, courtIDs)
	if err != nil {
		return nil, err
	}
	players, err := s.profiles.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*Details, len(matches))
	for i, m := range matches {
		d := &Details{Match: m, Event: events[m.EventID], Court: courts[m.CourtID]}
		for _, id := range m.PlayerIDs {
			if p, ok := players[id]; ok {
				d.Players = append(d.Players, p)
			}
		}
		out[i] = d
	}
	return out, nil
}
