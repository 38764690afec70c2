package match_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"github.com/nekogravitycat/tennis-league-backend/internal/store/memory"
)

var discardLogger = slog.New(slog.DiscardHandler)

type fixture struct {
	ctx         context.Context
	profiles    profile.Service
	events      event.Service
	invitations event.InvitationService
	matches     match.Service
	matchmaker  *profile.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	broker := live.NewBroker()
	profiles := profile.NewService(store.Profiles(), store, discardLogger)

	f := &fixture{
		ctx:         context.Background(),
		profiles:    profiles,
		events:      event.NewService(store.Events(), store.Invitations(), profiles, store, broker, discardLogger),
		invitations: event.NewInvitationService(store.Events(), store.Invitations(), profiles, store, broker, discardLogger),
		matches:     match.NewService(store.Matches(), store.Events(), store.Invitations(), profiles, store, broker, discardLogger),
	}

	_, err := profiles.Create(f.ctx, "admin", profile.CreateInput{
		FirstName: "Admin", LastName: "User", Role: profile.RoleAdmin, SkillLevel: profile.SkillAdvanced,
	})
	require.NoError(t, err)
	f.newPlayer(t, "organizer")
	_, err = profiles.AssignRole(f.ctx, "admin", "organizer", profile.RoleOrganizer)
	require.NoError(t, err)
	f.newPlayer(t, "matchmaker")
	f.matchmaker, err = profiles.AssignRole(f.ctx, "admin", "matchmaker", profile.RoleMatchmaker)
	require.NoError(t, err)
	return f
}

func (f *fixture) newPlayer(t *testing.T, userID string) *profile.Profile {
	t.Helper()
	p, err := f.profiles.Create(f.ctx, userID, profile.CreateInput{
		FirstName: userID, LastName: "Test", Role: profile.RolePlayer, SkillLevel: profile.SkillIntermediate,
	})
	require.NoError(t, err)
	return p
}

// league is an event with one singles and one doubles court.
type league struct {
	event   *event.Event
	singles *event.Court
	doubles *event.Court
	players []*profile.Profile
}

// newLeague builds an event and optionally fills it until it is confirmed.
func (f *fixture) newLeague(t *testing.T, name string, confirm bool) *league {
	t.Helper()
	e, err := f.events.Create(f.ctx, "organizer", event.CreateInput{
		Name:            name,
		Date:            "2026-11-14",
		Location:        "Hillside Courts",
		StartTime:       "18:00",
		CourtsReserved:  2,
		MatchesPerCourt: 1,
		MatchmakerID:    f.matchmaker.ID,
		InviteDeadline:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	l := &league{event: e}
	l.singles, err = f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{
		CourtNumber: 1, SurfaceType: event.SurfaceClay, Capacity: event.CapacitySingles,
	})
	require.NoError(t, err)
	l.doubles, err = f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{
		CourtNumber: 2, SurfaceType: event.SurfaceHard, Capacity: event.CapacityDoubles,
	})
	require.NoError(t, err)

	invitations := make([]*event.Invitation, 6)
	for i := range invitations {
		p := f.newPlayer(t, fmt.Sprintf("%s-player-%d", name, i))
		l.players = append(l.players, p)
		invitations[i], err = f.events.InvitePlayer(f.ctx, "organizer", e.ID, p.ID)
		require.NoError(t, err)
	}

	_, err = f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	if confirm {
		for i, inv := range invitations {
			_, err := f.invitations.Respond(f.ctx, l.players[i].ExternalUserID, inv.ID, event.InvitationAccepted)
			require.NoError(t, err)
		}
	}
	return l
}

func (l *league) playerIDs(from, to int) []string {
	ids := make([]string, 0, to-from)
	for _, p := range l.players[from:to] {
		ids = append(ids, p.ID)
	}
	return ids
}

func (f *fixture) eventStatus(t *testing.T, eventID string) event.Status {
	t.Helper()
	d, err := f.events.GetDetails(f.ctx, "admin", eventID)
	require.NoError(t, err)
	return d.Event.Status
}

func TestCreateMatch(t *testing.T) {
	f := newFixture(t)
	l := f.newLeague(t, "Autumn", true)
	require.Equal(t, event.StatusConfirmed, f.eventStatus(t, l.event.ID))

	t.Run("Wrong Player Count", func(t *testing.T) {
		_, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: l.event.ID, CourtID: l.doubles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(0, 3),
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
		assert.EqualError(t, err, "Court requires exactly 4 players")
	})

	t.Run("Duplicate Player", func(t *testing.T) {
		ids := l.playerIDs(0, 1)
		_, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: l.event.ID, CourtID: l.singles.ID, MatchNumber: 1, PlayerIDs: []string{ids[0], ids[0]},
		})
		assert.ErrorIs(t, err, match.ErrDuplicatePlayer)
	})

	t.Run("Player Not Confirmed", func(t *testing.T) {
		outsider := f.newPlayer(t, "outsider")
		_, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: l.event.ID, CourtID: l.singles.ID, MatchNumber: 1, PlayerIDs: []string{l.players[0].ID, outsider.ID},
		})
		assert.ErrorIs(t, err, match.ErrPlayerNotConfirmed)
	})

	t.Run("Court From Another Event", func(t *testing.T) {
		other := f.newLeague(t, "Other", false)
		_, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: l.event.ID, CourtID: other.singles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(0, 2),
		})
		assert.ErrorIs(t, err, match.ErrCourtMismatch)

		_, err = f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: other.event.ID, CourtID: other.singles.ID, MatchNumber: 1, PlayerIDs: other.playerIDs(0, 2),
		})
		assert.ErrorIs(t, err, match.ErrEventNotConfirmed)
	})

	t.Run("Organizer Forbidden", func(t *testing.T) {
		_, err := f.matches.Create(f.ctx, "organizer", match.CreateInput{
			EventID: l.event.ID, CourtID: l.singles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(0, 2),
		})
		assert.ErrorIs(t, err, profile.ErrForbidden)
	})

	t.Run("Scheduled", func(t *testing.T) {
		m, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
			EventID: l.event.ID, CourtID: l.doubles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(2, 6),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, match.StatusScheduled, m.Status)
		assert.Nil(t, m.WinnerID)

		list, err := f.matches.ListByEvent(f.ctx, "organizer", l.event.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, l.doubles.ID, list[0].Court.ID)
		assert.Equal(t, l.event.ID, list[0].Event.ID)
		assert.Len(t, list[0].Players, 4)
	})
}

func TestRecordScoreCompletesEvent(t *testing.T) {
	f := newFixture(t)
	l := f.newLeague(t, "Winter", true)

	singles, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
		EventID: l.event.ID, CourtID: l.singles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(0, 2),
	})
	require.NoError(t, err)
	doubles, err := f.matches.Create(f.ctx, "matchmaker", match.CreateInput{
		EventID: l.event.ID, CourtID: l.doubles.ID, MatchNumber: 1, PlayerIDs: l.playerIDs(2, 6),
	})
	require.NoError(t, err)

	scores := []match.Score{{Set: 1, Player1Score: 6, Player2Score: 4}, {Set: 2, Player1Score: 7, Player2Score: 5}}

	t.Run("Winner Must Play", func(t *testing.T) {
		_, err := f.matches.RecordScore(f.ctx, "matchmaker", singles.ID, match.ScoreInput{Scores: scores, WinnerID: l.players[3].ID})
		assert.ErrorIs(t, err, match.ErrWinnerNotPlayer)
	})

	t.Run("Invalid Score", func(t *testing.T) {
		_, err := f.matches.RecordScore(f.ctx, "matchmaker", singles.ID, match.ScoreInput{
			Scores: []match.Score{{Set: 0, Player1Score: 6, Player2Score: 0}}, WinnerID: l.players[0].ID,
		})
		assert.ErrorIs(t, err, match.ErrInvalidScore)
	})

	t.Run("Missing Match", func(t *testing.T) {
		_, err := f.matches.RecordScore(f.ctx, "matchmaker", "00000000-0000-0000-0000-000000000000", match.ScoreInput{Scores: scores, WinnerID: l.players[0].ID})
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("First Result Keeps Event Open", func(t *testing.T) {
		m, err := f.matches.RecordScore(f.ctx, "matchmaker", singles.ID, match.ScoreInput{Scores: scores, WinnerID: l.players[0].ID})
		require.NoError(t, err)
		assert.Equal(t, match.StatusCompleted, m.Status)
		require.NotNil(t, m.WinnerID)
		assert.Equal(t, l.players[0].ID, *m.WinnerID)
		assert.NotNil(t, m.CompletedAt)
		assert.Equal(t, scores, m.Scores)
		assert.Equal(t, event.StatusConfirmed, f.eventStatus(t, l.event.ID))
	})

	t.Run("Last Result Completes Event", func(t *testing.T) {
		_, err := f.matches.RecordScore(f.ctx, "admin", doubles.ID, match.ScoreInput{Scores: scores, WinnerID: l.players[2].ID})
		require.NoError(t, err)
		assert.Equal(t, event.StatusCompleted, f.eventStatus(t, l.event.ID))
	})

	t.Run("Rescoring Keeps Event Completed", func(t *testing.T) {
		_, err := f.matches.RecordScore(f.ctx, "matchmaker", singles.ID, match.ScoreInput{Scores: scores, WinnerID: l.players[1].ID})
		require.NoError(t, err)
		assert.Equal(t, event.StatusCompleted, f.eventStatus(t, l.event.ID))
	})

	t.Run("My Matches", func(t *testing.T) {
		mine, err := f.matches.ListMine(f.ctx, l.players[1].ExternalUserID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, singles.ID, mine[0].ID)
		require.NotNil(t, mine[0].WinnerID)
		assert.Equal(t, l.players[1].ID, *mine[0].WinnerID)

		none, err := f.matches.ListMine(f.ctx, "organizer")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestListByEventMissingEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.matches.ListByEvent(f.ctx, "matchmaker", "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, event.ErrNotFound)

	f.newPlayer(t, "someone")
	_, err = f.matches.ListByEvent(f.ctx, "someone", "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, profile.ErrForbidden)
}
