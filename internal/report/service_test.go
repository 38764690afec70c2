package report_test

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
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"github.com/nekogravitycat/tennis-league-backend/internal/report"
	"github.com/nekogravitycat/tennis-league-backend/internal/store/memory"
)

var discardLogger = slog.New(slog.DiscardHandler)

func TestParticipationReports(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	broker := live.NewBroker()
	profiles := profile.NewService(store.Profiles(), store, discardLogger)
	events := event.NewService(store.Events(), store.Invitations(), profiles, store, broker, discardLogger)
	invitations := event.NewInvitationService(store.Events(), store.Invitations(), profiles, store, broker, discardLogger)
	matches := match.NewService(store.Matches(), store.Events(), store.Invitations(), profiles, store, broker, discardLogger)
	reports := report.NewService(profiles, store.Profiles(), store.Events(), store.Invitations(), store.Matches())

	newProfile := func(userID string, role profile.Role) *profile.Profile {
		initial := profile.RolePlayer
		if role == profile.RoleAdmin {
			initial = role
		}
		p, err := profiles.Create(ctx, userID, profile.CreateInput{
			FirstName: userID, LastName: "Test", Role: initial, SkillLevel: profile.SkillBeginner,
		})
		require.NoError(t, err)
		if role != initial {
			p, err = profiles.AssignRole(ctx, "admin", userID, role)
			require.NoError(t, err)
		}
		return p
	}

	newProfile("admin", profile.RoleAdmin)
	newProfile("organizer", profile.RoleOrganizer)
	mm := newProfile("matchmaker", profile.RoleMatchmaker)

	e, err := events.Create(ctx, "organizer", event.CreateInput{
		Name: "Club Night", Date: "2026-12-01", Location: "Indoor Hall", StartTime: "19:00",
		CourtsReserved: 1, MatchesPerCourt: 2, MatchmakerID: mm.ID, InviteDeadline: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	court, err := events.AddCourt(ctx, "organizer", e.ID, event.AddCourtInput{
		CourtNumber: 1, SurfaceType: event.SurfaceHard, Capacity: event.CapacitySingles,
	})
	require.NoError(t, err)

	var players []*profile.Profile
	for i := range 3 {
		p := newProfile(fmt.Sprintf("p%d", i), profile.RolePlayer)
		players = append(players, p)
		_, err := events.InvitePlayer(ctx, "organizer", e.ID, p.ID)
		require.NoError(t, err)
	}
	_, err = events.StartInviting(ctx, "organizer", e.ID)
	require.NoError(t, err)

	mine, err := invitations.ListMine(ctx, "p0")
	require.NoError(t, err)
	_, err = invitations.Respond(ctx, "p0", mine[0].ID, event.InvitationAccepted)
	require.NoError(t, err)
	mine, err = invitations.ListMine(ctx, "p1")
	require.NoError(t, err)
	_, err = invitations.Respond(ctx, "p1", mine[0].ID, event.InvitationAccepted)
	require.NoError(t, err)

	pair := []string{players[0].ID, players[1].ID}
	m1, err := matches.Create(ctx, "matchmaker", match.CreateInput{EventID: e.ID, CourtID: court.ID, MatchNumber: 1, PlayerIDs: pair})
	require.NoError(t, err)
	_, err = matches.Create(ctx, "matchmaker", match.CreateInput{EventID: e.ID, CourtID: court.ID, MatchNumber: 2, PlayerIDs: pair})
	require.NoError(t, err)
	_, err = matches.RecordScore(ctx, "matchmaker", m1.ID, match.ScoreInput{
		Scores: []match.Score{{Set: 1, Player1Score: 6, Player2Score: 3}}, WinnerID: players[1].ID,
	})
	require.NoError(t, err)

	t.Run("Player Report", func(t *testing.T) {
		stats, err := reports.PlayerParticipation(ctx, "organizer")
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, players[0].ID, stats[0].Profile.ID)
		assert.Equal(t, report.Record{TotalMatches: 1, Wins: 0, Losses: 1, WinRate: 0}, stats[0].Record)
		assert.Equal(t, report.Record{TotalMatches: 1, Wins: 1, Losses: 0, WinRate: 100}, stats[1].Record)
		assert.Equal(t, []string{"Club Night"}, stats[1].Events)

		_, err = reports.PlayerParticipation(ctx, "matchmaker")
		assert.ErrorIs(t, err, profile.ErrForbidden)
	})

	t.Run("Event Report", func(t *testing.T) {
		r, err := reports.EventParticipation(ctx, "matchmaker", e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.ID, r.Event.ID)
		assert.Equal(t, report.EventSummary{TotalInvited: 3, TotalAccepted: 2, TotalMatches: 2, CompletedMatches: 1}, r.Summary)
		require.Len(t, r.PlayerStats, 3)
		assert.Equal(t, event.InvitationPending, r.PlayerStats[2].InvitationStatus)
		assert.Equal(t, players[2].ID, r.PlayerStats[2].Profile.ID)

		_, err = reports.EventParticipation(ctx, "p0", e.ID)
		assert.ErrorIs(t, err, profile.ErrForbidden)

		_, err = reports.EventParticipation(ctx, "admin", "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, event.ErrNotFound)
	})
}
