package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/db"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"golang.org/x/sync/errgroup"
)

// CreateInput holds the fields of a new event.
type CreateInput struct {
	Name            string
	Date            string
	Location        string
	StartTime       string
	CourtsReserved  int
	MatchesPerCourt int
	MatchmakerID    string
	InviteDeadline  time.Time
}

// AddCourtInput holds the fields of a new court.
type AddCourtInput struct {
	CourtNumber int
	Label       string
	SurfaceType Surface
	Capacity    int
}

// Service manages the event lifecycle: creation, courts, invitations and the move to inviting.
type Service interface {
	Create(ctx context.Context, actorID string, in CreateInput) (*Event, error)
	AddCourt(ctx context.Context, actorID, eventID string, in AddCourtInput) (*Court, error)
	ListByOrganizer(ctx context.Context, actorID string) ([]*WithStats, error)
	ListByMatchmaker(ctx context.Context, actorID string) ([]*Event, error)
	GetDetails(ctx context.Context, actorID, eventID string) (*Details, error)
	InvitePlayer(ctx context.Context, actorID, eventID, playerID string) (*Invitation, error)
	StartInviting(ctx context.Context, actorID, eventID string) (*Event, error)
}

type service struct {
	repo        Repository
	invitations InvitationRepository
	profiles    profile.Service
	tx          db.Transactor
	publisher   live.Publisher
	logger      *slog.Logger
}

// NewService creates a new event service.
func NewService(repo Repository, invitations InvitationRepository, profiles profile.Service, tx db.Transactor, publisher live.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:        repo,
		invitations: invitations,
		profiles:    profiles,
		tx:          tx,
		publisher:   publisher,
		logger:      logger,
	}
}

func (in *CreateInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" || in.Location == "" {
		return ErrNameRequired
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(StartTimeLayout, in.StartTime); err != nil {
		return ErrInvalidStartTime
	}
	if in.CourtsReserved < 1 {
		return ErrInvalidCourtCount
	}
	if in.MatchesPerCourt < 1 {
		return ErrInvalidMatchCount
	}
	if in.InviteDeadline.IsZero() {
		return ErrDeadlineRequired
	}
	return nil
}

func (s *service) Create(ctx context.Context, actorID string, in CreateInput) (*Event, error) {
	organizer, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	matchmaker, err := s.profiles.GetByID(ctx, in.MatchmakerID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, ErrInvalidMatchmaker
		}
		return nil, fmt.Errorf("failed to load matchmaker: %w", err)
	}
	if matchmaker.Role != profile.RoleMatchmaker {
		return nil, ErrInvalidMatchmaker
	}

	e := &Event{
		Name:            in.Name,
		Date:            in.Date,
		Location:        in.Location,
		StartTime:       in.StartTime,
		CourtsReserved:  in.CourtsReserved,
		MatchesPerCourt: in.MatchesPerCourt,
		MatchmakerID:    matchmaker.ID,
		OrganizerID:     organizer.ID,
		Status:          StatusSetup,
		InviteDeadline:  in.InviteDeadline.UTC(),
		TotalCapacity:   0,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "event created", slog.String("event_id", e.ID), slog.String("organizer_id", organizer.ID))
	return e, nil
}

func (s *service) AddCourt(ctx context.Context, actorID, eventID string, in AddCourtInput) (*Court, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer); err != nil {
		return nil, err
	}

	if in.Capacity != CapacitySingles && in.Capacity != CapacityDoubles {
		return nil, ErrInvalidCapacity
	}
	if _, err := ParseSurface(string(in.SurfaceType)); err != nil {
		return nil, err
	}
	if in.CourtNumber < 1 {
		return nil, ErrInvalidCourtNumber
	}
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		in.Label = "Court " + strconv.Itoa(in.CourtNumber)
	}

	c := &Court{
		EventID:     eventID,
		CourtNumber: in.CourtNumber,
		Label:       in.Label,
		SurfaceType: in.SurfaceType,
		Capacity:    in.Capacity,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if e.Status != StatusSetup {
			return ErrNotInSetup
		}

		if err := s.repo.CreateCourt(ctx, c); err != nil {
			return err
		}

		total, err := s.repo.SumCourtCapacity(ctx, eventID)
		if err != nil {
			return err
		}
		return s.repo.UpdateTotalCapacity(ctx, eventID, total)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{Type: live.TypeCourtAdded, EventID: eventID, CourtID: c.ID})
	return c, nil
}

func (s *service) ListByOrganizer(ctx context.Context, actorID string) ([]*WithStats, error) {
	organizer, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.List(ctx, Filter{OrganizerID: &organizer.ID})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	stats, err := s.invitations.StatsByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*WithStats, len(events))
	for i, e := range events {
		out[i] = &WithStats{Event: e, Stats: stats[e.ID]}
	}
	return out, nil
}

func (s *service) ListByMatchmaker(ctx context.Context, actorID string) ([]*Event, error) {
	matchmaker, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleMatchmaker)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{MatchmakerID: &matchmaker.ID})
}

func (s *service) GetDetails(ctx context.Context, actorID, eventID string) (*Details, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer, profile.RoleMatchmaker); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := &Details{Event: e}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		courts, err := s.repo.ListCourts(gctx, eventID)
		if err != nil {
			return err
		}
		details.Courts = courts
		return nil
	})

	g.Go(func() error {
		invitations, err := s.invitations.ListByEvent(gctx, eventID)
		if err != nil {
			return err
		}

		playerIDs := make([]string, len(invitations))
		for i, inv := range invitations {
			playerIDs[i] = inv.PlayerID
		}
		players, err := s.profiles.GetByIDs(gctx, playerIDs)
		if err != nil {
			return err
		}

		details.Invitations = make([]*InvitationWithPlayer, len(invitations))
		for i, inv := range invitations {
			details.Invitations[i] = &InvitationWithPlayer{Invitation: inv, Player: players[inv.PlayerID]}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// InvitePlayer is only allowed while the event is in setup.
func (s *service) InvitePlayer(ctx context.Context, actorID, eventID, playerID string) (*Invitation, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer); err != nil {
		return nil, err
	}

	inv := &Invitation{
		EventID:  eventID,
		PlayerID: playerID,
		Status:   InvitationPending,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if e.Status != StatusSetup {
			return ErrNotInSetup
		}

		if _, err := s.profiles.GetByID(ctx, playerID); err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		if _, err := s.invitations.GetByEventAndPlayer(ctx, eventID, playerID); err == nil {
			return ErrAlreadyInvited
		} else if !errors.Is(err, ErrInvitationNotFound) {
			return err
		}

		return s.invitations.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{Type: live.TypeInvitationCreated, EventID: eventID, InvitationID: inv.ID})
	return inv, nil
}

func (s *service) StartInviting(ctx context.Context, actorID, eventID string) (*Event, error) {
	if _, err := s.profiles.RequireRole(ctx, actorID, profile.RoleAdmin, profile.RoleOrganizer); err != nil {
		return nil, err
	}

	var e *Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.repo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if e.Status != StatusSetup {
			return ErrNotInSetup
		}

		courts, err := s.repo.ListCourts(ctx, eventID)
		if err != nil {
			return err
		}
		if len(courts) != e.CourtsReserved {
			return ErrCourtsIncomplete
		}

		if err := s.repo.UpdateStatus(ctx, eventID, StatusInviting); err != nil {
			return err
		}
		e.Status = StatusInviting
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(live.Notification{Type: live.TypeEventStatusChanged, EventID: eventID, Status: string(e.Status)})
	return e, nil
}
