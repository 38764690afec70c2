package http

import (
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	profilehttp "github.com/nekogravitycat/tennis-league-backend/internal/profile/http"
)

// CreateEventRequest is the payload for POST /events.
// Date is YYYY-MM-DD and StartTime is HH:MM.
type CreateEventRequest struct {
	Name            string    `json:"name" binding:"required"`
	Date            string    `json:"date" binding:"required"`
	Location        string    `json:"location" binding:"required"`
	StartTime       string    `json:"start_time" binding:"required"`
	CourtsReserved  int       `json:"courts_reserved" binding:"required,min=1"`
	MatchesPerCourt int       `json:"matches_per_court" binding:"required,min=1"`
	MatchmakerID    string    `json:"matchmaker_id" binding:"required,uuid"`
	InviteDeadline  time.Time `json:"invite_deadline" binding:"required"`
}

// AddCourtRequest is the payload for POST /events/:id/courts.
type AddCourtRequest struct {
	CourtNumber int    `json:"court_number" binding:"required,min=1"`
	Label       string `json:"label"`
	SurfaceType string `json:"surface_type" binding:"required,oneof=grass clay hard"`
	Capacity    int    `json:"capacity" binding:"required,oneof=2 4"`
}

// InvitePlayerRequest is the payload for POST /events/:id/invitations.
type InvitePlayerRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
}

// RespondRequest is the payload for POST /invitations/:id/respond.
type RespondRequest struct {
	Response string `json:"response" binding:"required,oneof=accepted declined"`
}

type EventResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Date            string    `json:"date"`
	Location        string    `json:"location"`
	StartTime       string    `json:"start_time"`
	CourtsReserved  int       `json:"courts_reserved"`
	MatchesPerCourt int       `json:"matches_per_court"`
	MatchmakerID    string    `json:"matchmaker_id"`
	OrganizerID     string    `json:"organizer_id"`
	Status          string    `json:"status"`
	InviteDeadline  time.Time `json:"invite_deadline"`
	TotalCapacity   int       `json:"total_capacity"`
	CreatedAt       time.Time `json:"created_at"`
}

type InvitationStatsResponse struct {
	TotalInvited int `json:"total_invited"`
	Accepted     int `json:"accepted"`
	Declined     int `json:"declined"`
	Pending      int `json:"pending"`
}

type EventWithStatsResponse struct {
	EventResponse
	InvitationStats InvitationStatsResponse `json:"invitation_stats"`
}

type CourtResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	CourtNumber int       `json:"court_number"`
	Label       string    `json:"label"`
	SurfaceType string    `json:"surface_type"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvitationResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	PlayerID    string     `json:"player_id"`
	Status      string     `json:"status"`
	InvitedAt   time.Time  `json:"invited_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type InvitationWithPlayerResponse struct {
	InvitationResponse
	Player *profilehttp.ProfileResponse `json:"player"`
}

type InvitationWithEventResponse struct {
	InvitationResponse
	Event *EventResponse `json:"event"`
}

type EventDetailsResponse struct {
	Event       EventResponse                  `json:"event"`
	Courts      []CourtResponse                `json:"courts"`
	Invitations []InvitationWithPlayerResponse `json:"invitations"`
}

func NewEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Name:            e.Name,
		Date:            e.Date,
		Location:        e.Location,
		StartTime:       e.StartTime,
		CourtsReserved:  e.CourtsReserved,
		MatchesPerCourt: e.MatchesPerCourt,
		MatchmakerID:    e.MatchmakerID,
		OrganizerID:     e.OrganizerID,
		Status:          string(e.Status),
		InviteDeadline:  e.InviteDeadline,
		TotalCapacity:   e.TotalCapacity,
		CreatedAt:       e.CreatedAt,
	}
}

func NewEventListResponse(events []*event.Event) []EventResponse {
	items := make([]EventResponse, len(events))
	for i, e := range events {
		items[i] = NewEventResponse(e)
	}
	return items
}

func NewEventWithStatsResponse(e *event.WithStats) EventWithStatsResponse {
	return EventWithStatsResponse{
		EventResponse: NewEventResponse(e.Event),
		InvitationStats: InvitationStatsResponse{
			TotalInvited: e.Stats.TotalInvited,
			Accepted:     e.Stats.Accepted,
			Declined:     e.Stats.Declined,
			Pending:      e.Stats.Pending,
		},
	}
}

func NewCourtResponse(c *event.Court) CourtResponse {
	return CourtResponse{
		ID:          c.ID,
		EventID:     c.EventID,
		CourtNumber: c.CourtNumber,
		Label:       c.Label,
		SurfaceType: string(c.SurfaceType),
		Capacity:    c.Capacity,
		CreatedAt:   c.CreatedAt,
	}
}

func NewInvitationResponse(inv *event.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:          inv.ID,
		EventID:     inv.EventID,
		PlayerID:    inv.PlayerID,
		Status:      string(inv.Status),
		InvitedAt:   inv.InvitedAt,
		RespondedAt: inv.RespondedAt,
	}
}

func NewEventDetailsResponse(d *event.Details) EventDetailsResponse {
	courts := make([]CourtResponse, len(d.Courts))
	for i, c := range d.Courts {
		courts[i] = NewCourtResponse(c)
	}

	invitations := make([]InvitationWithPlayerResponse, len(d.Invitations))
	for i, inv := range d.Invitations {
		item := InvitationWithPlayerResponse{InvitationResponse: NewInvitationResponse(inv.Invitation)}
		if inv.Player != nil {
			player := profilehttp.NewProfileResponse(inv.Player)
			item.Player = &player
		}
		invitations[i] = item
	}

	return EventDetailsResponse{
		Event:       NewEventResponse(d.Event),
		Courts:      courts,
		Invitations: invitations,
	}
}

func NewInvitationWithEventResponse(inv *event.InvitationWithEvent) InvitationWithEventResponse {
	item := InvitationWithEventResponse{InvitationResponse: NewInvitationResponse(inv.Invitation)}
	if inv.Event != nil {
		e := NewEventResponse(inv.Event)
		item.Event = &e
	}
	return item
}
