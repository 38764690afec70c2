package event_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"github.com/nekogravitycat/tennis-league-backend/internal/store/memory"
)

var discardLogger = slog.New(slog.DiscardHandler)

type fixture struct {
	ctx         context.Context
	profiles    profile.Service
	events      event.Service
	invitations event.InvitationService
	broker      *live.Broker

	admin      *profile.Profile
	organizer  *profile.Profile
	matchmaker *profile.Profile
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
		broker:      broker,
	}
	f.admin = f.newProfile(t, "admin", profile.RoleAdmin)
	f.organizer = f.newProfile(t, "organizer", profile.RoleOrganizer)
	f.matchmaker = f.newProfile(t, "matchmaker", profile.RoleMatchmaker)
	return f
}

// newProfile creates a player and promotes it through the admin when role is privileged.
func (f *fixture) newProfile(t *testing.T, userID string, role profile.Role) *profile.Profile {
	t.Helper()
	initial := profile.RolePlayer
	if role == profile.RoleAdmin {
		initial = profile.RoleAdmin
	}
	p, err := f.profiles.Create(f.ctx, userID, profile.CreateInput{
		FirstName:  userID,
		LastName:   "Test",
		Role:       initial,
		SkillLevel: profile.SkillIntermediate,
	})
	require.NoError(t, err)

	if role != initial {
		p, err = f.profiles.AssignRole(f.ctx, "admin", userID, role)
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) createEvent(t *testing.T, courtsReserved int, deadline time.Time) *event.Event {
	t.Helper()
	e, err := f.events.Create(f.ctx, "organizer", event.CreateInput{
		Name:            "Saturday League",
		Date:            "2026-11-07",
		Location:        "Riverside Club",
		StartTime:       "09:30",
		CourtsReserved:  courtsReserved,
		MatchesPerCourt: 2,
		MatchmakerID:    f.matchmaker.ID,
		InviteDeadline:  deadline,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) addCourt(t *testing.T, eventID string, number, capacity int) *event.Court {
	t.Helper()
	c, err := f.events.AddCourt(f.ctx, "organizer", eventID, event.AddCourtInput{
		CourtNumber: number,
		SurfaceType: event.SurfaceHard,
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) invite(t *testing.T, eventID string, player *profile.Profile) *event.Invitation {
	t.Helper()
	inv, err := f.events.InvitePlayer(f.ctx, "organizer", eventID, player.ID)
	require.NoError(t, err)
	return inv
}

func (f *fixture) eventStatus(t *testing.T, eventID string) event.Status {
	t.Helper()
	d, err := f.events.GetDetails(f.ctx, "admin", eventID)
	require.NoError(t, err)
	return d.Event.Status
}

func nextWeek() time.Time {
	return time.Now().Add(7 * 24 * time.Hour)
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	f.newProfile(t, "player", profile.RolePlayer)

	t.Run("Organizer Creates Event", func(t *testing.T) {
		e := f.createEvent(t, 2, nextWeek())
		assert.Equal(t, event.StatusSetup, e.Status)
		assert.Equal(t, 0, e.TotalCapacity)
		assert.Equal(t, f.organizer.ID, e.OrganizerID)
		assert.Equal(t, f.matchmaker.ID, e.MatchmakerID)
		assert.Equal(t, "09:30", e.StartTime)
	})

	valid := event.CreateInput{
		Name:            "League",
		Date:            "2026-11-07",
		Location:        "Club",
		StartTime:       "10:00",
		CourtsReserved:  1,
		MatchesPerCourt: 1,
		MatchmakerID:    f.matchmaker.ID,
		InviteDeadline:  nextWeek(),
	}

	t.Run("Player Forbidden", func(t *testing.T) {
		_, err := f.events.Create(f.ctx, "player", valid)
		assert.ErrorIs(t, err, profile.ErrForbidden)
	})

	t.Run("Matchmaker Must Have Matchmaker Role", func(t *testing.T) {
		in := valid
		in.MatchmakerID = f.organizer.ID
		_, err := f.events.Create(f.ctx, "organizer", in)
		assert.ErrorIs(t, err, event.ErrInvalidMatchmaker)

		in.MatchmakerID = "00000000-0000-0000-0000-000000000000"
		_, err = f.events.Create(f.ctx, "organizer", in)
		assert.ErrorIs(t, err, event.ErrInvalidMatchmaker)
	})

	t.Run("Validation", func(t *testing.T) {
		cases := map[string]struct {
			mutate func(in *event.CreateInput)
			want   error
		}{
			"blank name":       {func(in *event.CreateInput) { in.Name = "  " }, event.ErrNameRequired},
			"bad date":         {func(in *event.CreateInput) { in.Date = "07/11/2026" }, event.ErrInvalidDate},
			"bad start time":   {func(in *event.CreateInput) { in.StartTime = "9am" }, event.ErrInvalidStartTime},
			"no courts":        {func(in *event.CreateInput) { in.CourtsReserved = 0 }, event.ErrInvalidCourtCount},
			"no matches":       {func(in *event.CreateInput) { in.MatchesPerCourt = 0 }, event.ErrInvalidMatchCount},
			"missing deadline": {func(in *event.CreateInput) { in.InviteDeadline = time.Time{} }, event.ErrDeadlineRequired},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				in := valid
				tc.mutate(&in)
				_, err := f.events.Create(f.ctx, "organizer", in)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestAddCourtAndStartInviting(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 2, nextWeek())

	first := f.addCourt(t, e.ID, 1, event.CapacitySingles)
	assert.Equal(t, "Court 1", first.Label)

	_, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	assert.ErrorIs(t, err, event.ErrCourtsIncomplete)
	assert.Equal(t, event.StatusSetup, f.eventStatus(t, e.ID))

	f.addCourt(t, e.ID, 2, event.CapacityDoubles)

	d, err := f.events.GetDetails(f.ctx, "organizer", e.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Event.TotalCapacity)
	require.Len(t, d.Courts, 2)
	assert.Equal(t, 1, d.Courts[0].CourtNumber)

	started, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)
	assert.Equal(t, event.StatusInviting, started.Status)
	assert.Equal(t, event.StatusInviting, f.eventStatus(t, e.ID))

	_, err = f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{
		CourtNumber: 3, SurfaceType: event.SurfaceClay, Capacity: event.CapacitySingles,
	})
	assert.ErrorIs(t, err, event.ErrNotInSetup)

	_, err = f.events.StartInviting(f.ctx, "organizer", e.ID)
	assert.ErrorIs(t, err, event.ErrNotInSetup)
}

func TestAddCourtValidation(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, nextWeek())

	_, err := f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{CourtNumber: 1, SurfaceType: event.SurfaceHard, Capacity: 3})
	assert.ErrorIs(t, err, event.ErrInvalidCapacity)

	_, err = f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{CourtNumber: 1, SurfaceType: "sand", Capacity: 2})
	assert.ErrorIs(t, err, event.ErrInvalidSurface)

	_, err = f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{CourtNumber: 0, SurfaceType: event.SurfaceHard, Capacity: 2})
	assert.ErrorIs(t, err, event.ErrInvalidCourtNumber)

	_, err = f.events.AddCourt(f.ctx, "organizer", "00000000-0000-0000-0000-000000000000", event.AddCourtInput{CourtNumber: 1, SurfaceType: event.SurfaceHard, Capacity: 2})
	assert.ErrorIs(t, err, event.ErrNotFound)

	_, err = f.events.AddCourt(f.ctx, "matchmaker", e.ID, event.AddCourtInput{CourtNumber: 1, SurfaceType: event.SurfaceHard, Capacity: 2})
	assert.ErrorIs(t, err, profile.ErrForbidden)

	c, err := f.events.AddCourt(f.ctx, "organizer", e.ID, event.AddCourtInput{CourtNumber: 1, Label: "Centre", SurfaceType: event.SurfaceGrass, Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, "Centre", c.Label)
}

func TestInvitePlayer(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, nextWeek())
	f.addCourt(t, e.ID, 1, event.CapacitySingles)
	p := f.newProfile(t, "p", profile.RolePlayer)

	inv := f.invite(t, e.ID, p)
	assert.Equal(t, event.InvitationPending, inv.Status)
	assert.Nil(t, inv.RespondedAt)

	_, err := f.events.InvitePlayer(f.ctx, "organizer", e.ID, p.ID)
	assert.ErrorIs(t, err, event.ErrAlreadyInvited)

	_, err = f.events.InvitePlayer(f.ctx, "organizer", e.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, event.ErrPlayerNotFound)

	_, err = f.events.InvitePlayer(f.ctx, "p", e.ID, p.ID)
	assert.ErrorIs(t, err, profile.ErrForbidden)

	_, err = f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	q := f.newProfile(t, "q", profile.RolePlayer)
	_, err = f.events.InvitePlayer(f.ctx, "organizer", e.ID, q.ID)
	assert.ErrorIs(t, err, event.ErrNotInSetup)
}

func TestRespondConfirmsEventAtCapacity(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, nextWeek())
	f.addCourt(t, e.ID, 1, event.CapacitySingles)

	p := f.newProfile(t, "p", profile.RolePlayer)
	q := f.newProfile(t, "q", profile.RolePlayer)
	r := f.newProfile(t, "r", profile.RolePlayer)
	invP := f.invite(t, e.ID, p)
	invQ := f.invite(t, e.ID, q)
	invR := f.invite(t, e.ID, r)

	_, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	t.Run("First Acceptance", func(t *testing.T) {
		inv, err := f.invitations.Respond(f.ctx, "p", invP.ID, event.InvitationAccepted)
		require.NoError(t, err)
		assert.Equal(t, event.InvitationAccepted, inv.Status)
		assert.NotNil(t, inv.RespondedAt)
		assert.Equal(t, event.StatusInviting, f.eventStatus(t, e.ID))
	})

	t.Run("Foreign Invitation", func(t *testing.T) {
		_, err := f.invitations.Respond(f.ctx, "p", invQ.ID, event.InvitationAccepted)
		assert.ErrorIs(t, err, event.ErrInvitationNotFound)
	})

	t.Run("Invalid Response", func(t *testing.T) {
		_, err := f.invitations.Respond(f.ctx, "q", invQ.ID, event.InvitationExpired)
		assert.ErrorIs(t, err, event.ErrInvalidResponse)
	})

	t.Run("Second Acceptance Confirms", func(t *testing.T) {
		_, err := f.invitations.Respond(f.ctx, "q", invQ.ID, event.InvitationAccepted)
		require.NoError(t, err)
		assert.Equal(t, event.StatusConfirmed, f.eventStatus(t, e.ID))
	})

	t.Run("Full Event", func(t *testing.T) {
		_, err := f.invitations.Respond(f.ctx, "r", invR.ID, event.InvitationAccepted)
		assert.ErrorIs(t, err, event.ErrEventFull)

		inv, err := f.invitations.Respond(f.ctx, "r", invR.ID, event.InvitationDeclined)
		require.NoError(t, err)
		assert.Equal(t, event.InvitationDeclined, inv.Status)
		assert.Equal(t, event.StatusConfirmed, f.eventStatus(t, e.ID))
	})

	t.Run("Already Responded", func(t *testing.T) {
		_, err := f.invitations.Respond(f.ctx, "p", invP.ID, event.InvitationDeclined)
		assert.ErrorIs(t, err, event.ErrAlreadyResponded)
	})

	t.Run("Organizer Stats", func(t *testing.T) {
		list, err := f.events.ListByOrganizer(f.ctx, "organizer")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, event.InvitationStats{TotalInvited: 3, Accepted: 2, Declined: 1, Pending: 0}, list[0].Stats)
	})
}

func TestRespondAfterDeadline(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, time.Now().Add(-time.Hour))
	f.addCourt(t, e.ID, 1, event.CapacitySingles)
	p := f.newProfile(t, "p", profile.RolePlayer)
	inv := f.invite(t, e.ID, p)

	_, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	_, err = f.invitations.Respond(f.ctx, "p", inv.ID, event.InvitationAccepted)
	assert.ErrorIs(t, err, event.ErrDeadlineExpired)

	mine, err := f.invitations.ListMine(f.ctx, "p")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.InvitationExpired, mine[0].Status, "expiry must be persisted")
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, e.ID, mine[0].Event.ID)

	_, err = f.invitations.Respond(f.ctx, "p", inv.ID, event.InvitationAccepted)
	assert.ErrorIs(t, err, event.ErrAlreadyResponded)
	assert.Equal(t, event.StatusInviting, f.eventStatus(t, e.ID))
}

func TestDeclineAfterDeadline(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, time.Now().Add(-time.Hour))
	f.addCourt(t, e.ID, 1, event.CapacitySingles)
	p := f.newProfile(t, "p", profile.RolePlayer)
	q := f.newProfile(t, "q", profile.RolePlayer)
	invP := f.invite(t, e.ID, p)
	f.invite(t, e.ID, q)

	_, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	_, err = f.invitations.Respond(f.ctx, "p", invP.ID, event.InvitationDeclined)
	assert.ErrorIs(t, err, event.ErrDeadlineExpired)

	mine, err := f.invitations.ListMine(f.ctx, "p")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.InvitationExpired, mine[0].Status)
	assert.NotNil(t, mine[0].RespondedAt)

	others, err := f.invitations.ListMine(f.ctx, "q")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, event.InvitationPending, others[0].Status)

	_, err = f.invitations.Respond(f.ctx, "p", invP.ID, event.InvitationDeclined)
	assert.ErrorIs(t, err, event.ErrAlreadyResponded)
}

func TestConcurrentAcceptanceNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, nextWeek())
	f.addCourt(t, e.ID, 1, event.CapacitySingles)

	const players = 6
	userIDs := make([]string, players)
	invitationIDs := make([]string, players)
	for i := range players {
		userIDs[i] = fmt.Sprintf("player-%d", i)
		p := f.newProfile(t, userIDs[i], profile.RolePlayer)
		invitationIDs[i] = f.invite(t, e.ID, p).ID
	}
	_, err := f.events.StartInviting(f.ctx, "organizer", e.ID)
	require.NoError(t, err)

	feed := f.broker.Subscribe(e.ID)
	defer f.broker.Unsubscribe(e.ID, feed)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		full     int
	)
	for i := range players {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.invitations.Respond(f.ctx, userIDs[i], invitationIDs[i], event.InvitationAccepted)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case assert.ErrorIs(t, err, event.ErrEventFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, accepted)
	assert.Equal(t, players-2, full)
	assert.Equal(t, event.StatusConfirmed, f.eventStatus(t, e.ID))

	confirmations := 0
	for len(feed) > 0 {
		var n live.Notification
		require.NoError(t, json.Unmarshal(<-feed, &n))
		if n.Type == live.TypeEventStatusChanged && n.Status == string(event.StatusConfirmed) {
			confirmations++
		}
	}
	assert.Equal(t, 1, confirmations)
}

func TestEventListings(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, 1, nextWeek())
	f.addCourt(t, e.ID, 1, event.CapacityDoubles)
	p := f.newProfile(t, "p", profile.RolePlayer)
	f.invite(t, e.ID, p)

	t.Run("Assigned To Matchmaker", func(t *testing.T) {
		list, err := f.events.ListByMatchmaker(f.ctx, "matchmaker")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, e.ID, list[0].ID)

		_, err = f.events.ListByMatchmaker(f.ctx, "organizer")
		assert.ErrorIs(t, err, profile.ErrForbidden)
	})

	t.Run("Other Organizer Sees Nothing", func(t *testing.T) {
		f.newProfile(t, "organizer-2", profile.RoleOrganizer)
		list, err := f.events.ListByOrganizer(f.ctx, "organizer-2")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Details", func(t *testing.T) {
		d, err := f.events.GetDetails(f.ctx, "matchmaker", e.ID)
		require.NoError(t, err)
		require.Len(t, d.Invitations, 1)
		require.NotNil(t, d.Invitations[0].Player)
		assert.Equal(t, p.ID, d.Invitations[0].Player.ID)

		_, err = f.events.GetDetails(f.ctx, "p", e.ID)
		assert.ErrorIs(t, err, profile.ErrForbidden)

		_, err = f.events.GetDetails(f.ctx, "admin", "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("My Invitations", func(t *testing.T) {
		mine, err := f.invitations.ListMine(f.ctx, "p")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, event.InvitationPending, mine[0].Status)

		_, err = f.invitations.ListMine(f.ctx, "stranger")
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})
}
