package report

import (
	"context"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"golang.org/x/sync/errgroup"
)

// Service builds participation reports from match history.
type Service interface {
	PlayerParticipation(ctx context.Context, actorID string) ([]*PlayerStats, error)
	EventParticipation(ctx context.Context, actorID, eventID string) (*EventReport, error)
}

type service struct {
	profiles     profile.Service
	profileStore profile.Repository
	events       event.Repository
	invitations  event.InvitationRepository
	matches      match.Repository
}

// NewService creates a new report service.
func NewService(profiles profile.Service, profileStore profile.Repository, events event.Repository, invitations event.InvitationRepository, matches match.Repository) Service {
	return &service{
		profiles:     profiles,
		profileStore: profileStore,
		events:       events,
		invitations:  invitations,
		matches:      matches,
	}
}

func (s *service) PlayerParticipation(ctx context.Context, actorID string) ([]*PlayerStats, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer); err != nil {
		return nil, err
	}

	var (
		profiles []*profile.Profile
		matches  []*match.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.profileStore.List(gctx, profile.Filter{})
		return err
	})
	g.Go(func() error {
		completed := match.StatusCompleted
		var err error
		matches, err = s.matches.List(gctx, match.Filter{Status: &completed})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eventIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		eventIDs = append(eventIDs, m.EventID)
	}
	events, err := s.events.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	return BuildPlayerReport(profiles, matches, events), nil
}

func (s *service) EventParticipation(ctx context.Context, actorID, eventID string) (*EventReport, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer, profile.RoleMatchmaker); err != nil {
		return nil, err
	}

	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var (
		invitations []*event.Invitation
		matches     []*match.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invitations, err = s.invitations.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matches.List(gctx, match.Filter{EventID: &eventID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	playerIDs := make([]string, len(invitations))
	for i, inv := range invitations {
		playerIDs[i] = inv.PlayerID
	}
	players, err := s.profiles.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	return BuildEventReport(e, invitations, players, matches), nil
}
