package match

import (
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

var (
	ErrNotFound           = apperror.NotFound("match not found")
	ErrEventNotConfirmed  = apperror.InvalidState("event must be confirmed before creating matches")
	ErrCourtMismatch      = apperror.NotFound("court not found or not part of this event")
	ErrPlayerNotConfirmed = apperror.Validation("all players must be confirmed for this event")
	ErrDuplicatePlayer    = apperror.Validation("a player cannot appear twice in the same match")
	ErrWinnerNotPlayer    = apperror.Validation("winner must be one of the match players")
	ErrInvalidMatchNumber = apperror.Validation("match number must be at least 1")
	ErrInvalidScore       = apperror.Validation("set numbers must be positive and scores must not be negative")
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Score is the result of one set.
type Score struct {
	Set          int `json:"set"`
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type Match struct {
	ID          string
	EventID     string
	CourtID     string
	MatchNumber int
	PlayerIDs   []string // len == court capacity
	Status      Status
	Scores      []Score
	WinnerID    *string
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// HasPlayer reports whether profileID plays in the match.
func (m *Match) HasPlayer(profileID string) bool {
	for _, id := range m.PlayerIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// Filter defines filter options for listing matches.
type Filter struct {
	EventID  *string
	PlayerID *string
	Status   *Status
}

// Details is a match with its event, court and players resolved.
// Event and Court are nil when the record is gone; missing players are skipped.
type Details struct {
	*Match
	Event   *event.Event
	Court   *event.Court
	Players []*profile.Profile
}
