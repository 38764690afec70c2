package report

import (
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

// UnknownEvent names matches whose event no longer exists.
const UnknownEvent = "Unknown Event"

// Record is a win/loss tally.
type Record struct {
	TotalMatches int
	Wins         int
	Losses       int
	WinRate      int // percent, rounded half up
}

// PlayerStats is one row of the league-wide participation report.
type PlayerStats struct {
	Profile *profile.Profile
	Record
	Events []string // distinct event names, sorted
}

// EventPlayerStats is one row of a single event's participation report.
type EventPlayerStats struct {
	Profile          *profile.Profile
	InvitationStatus event.InvitationStatus
	Record
}

type EventSummary struct {
	TotalInvited     int
	TotalAccepted    int
	TotalMatches     int
	CompletedMatches int
}

type EventReport struct {
	Event       *event.Event
	PlayerStats []*EventPlayerStats
	Summary     EventSummary
}
