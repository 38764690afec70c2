package event

import (
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

var (
	ErrNotFound           = apperror.NotFound("event not found")
	ErrCourtNotFound      = apperror.NotFound("court not found")
	ErrPlayerNotFound     = apperror.NotFound("player not found")
	ErrNotInSetup         = apperror.InvalidState("event is not in setup phase")
	ErrCourtsIncomplete   = apperror.InvalidState("all courts must be configured before starting invitations")
	ErrInvalidMatchmaker  = apperror.Validation("invalid matchmaker")
	ErrInvalidCapacity    = apperror.Validation("court capacity must be 2 or 4")
	ErrInvalidSurface     = apperror.Validation("surface type must be grass, clay or hard")
	ErrInvalidDate        = apperror.Validation("date must be formatted as YYYY-MM-DD")
	ErrInvalidStartTime   = apperror.Validation("start time must be formatted as HH:MM")
	ErrInvalidCourtCount  = apperror.Validation("courts reserved must be at least 1")
	ErrInvalidMatchCount  = apperror.Validation("matches per court must be at least 1")
	ErrInvalidCourtNumber = apperror.Validation("court number must be at least 1")
	ErrNameRequired       = apperror.Validation("name and location are required")
	ErrDeadlineRequired   = apperror.Validation("invite deadline is required")

	ErrInvitationNotFound = apperror.NotFound("invitation not found")
	ErrAlreadyInvited     = apperror.Conflict("player already invited")
	ErrAlreadyResponded   = apperror.InvalidState("invitation already responded to")
	ErrEventFull          = apperror.InvalidState("event is full")
	ErrDeadlineExpired    = apperror.DeadlineExpired("invitation deadline has passed")
	ErrInvalidResponse    = apperror.Validation("response must be accepted or declined")
)

const (
	DateLayout      = "2006-01-02"
	StartTimeLayout = "15:04"
)

// Status is the event lifecycle state. Transitions only move forward.
type Status string

const (
	StatusSetup      Status = "setup"
	StatusInviting   Status = "inviting"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress" // nothing transitions into this state yet
	StatusCompleted  Status = "completed"
)

// Confirmable reports whether reaching full capacity may move the event to confirmed.
func (s Status) Confirmable() bool {
	return s == StatusSetup || s == StatusInviting
}

type Event struct {
	ID              string // UUID
	Name            string
	Date            string // YYYY-MM-DD
	Location        string
	StartTime       string // HH:MM
	CourtsReserved  int
	MatchesPerCourt int
	MatchmakerID    string
	OrganizerID     string
	Status          Status
	InviteDeadline  time.Time
	TotalCapacity   int // sum of court capacities
	CreatedAt       time.Time
}

// Surface is a court's playing surface.
type Surface string

const (
	SurfaceGrass Surface = "grass"
	SurfaceClay  Surface = "clay"
	SurfaceHard  Surface = "hard"
)

func ParseSurface(s string) (Surface, error) {
	switch v := Surface(s); v {
	case SurfaceGrass, SurfaceClay, SurfaceHard:
		return v, nil
	default:
		return "", ErrInvalidSurface
	}
}

// Court capacities: singles and doubles.
const (
	CapacitySingles = 2
	CapacityDoubles = 4
)

type Court struct {
	ID          string
	EventID     string
	CourtNumber int
	Label       string
	SurfaceType Surface
	Capacity    int
	CreatedAt   time.Time
}

// InvitationStatus tracks a player's answer to an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// ParseResponse accepts only the two answers a player may give.
func ParseResponse(s string) (InvitationStatus, error) {
	switch v := InvitationStatus(s); v {
	case InvitationAccepted, InvitationDeclined:
		return v, nil
	default:
		return "", ErrInvalidResponse
	}
}

type Invitation struct {
	ID          string
	EventID     string
	PlayerID    string
	Status      InvitationStatus
	InvitedAt   time.Time
	RespondedAt *time.Time
}

// InvitationStats summarizes the invitations of one event.
type InvitationStats struct {
	TotalInvited int
	Accepted     int
	Declined     int
	Pending      int
}

// Add counts one invitation with the given status.
func (s *InvitationStats) Add(status InvitationStatus) {
	s.TotalInvited++
	switch status {
	case InvitationAccepted:
		s.Accepted++
	case InvitationDeclined:
		s.Declined++
	case InvitationPending:
		s.Pending++
	case InvitationExpired:
	}
}

// Filter defines filter options for listing events.
type Filter struct {
	OrganizerID  *string
	MatchmakerID *string
}

// WithStats is an event listed together with its invitation counts.
type WithStats struct {
	*Event
	Stats InvitationStats
}

// InvitationWithPlayer pairs an invitation with the invited profile.
// Player is nil when the profile no longer exists.
type InvitationWithPlayer struct {
	*Invitation
	Player *profile.Profile
}

// InvitationWithEvent pairs an invitation with its event.
type InvitationWithEvent struct {
	*Invitation
	Event *Event
}

// Details is the full view of one event.
type Details struct {
	Event       *Event
	Courts      []*Court
	Invitations []*InvitationWithPlayer
}
