package http

import (
	eventhttp "github.com/nekogravitycat/tennis-league-backend/internal/event/http"
	profilehttp "github.com/nekogravitycat/tennis-league-backend/internal/profile/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/report"
)

type RecordResponse struct {
	TotalMatches int `json:"total_matches"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	WinRate      int `json:"win_rate"`
}

type PlayerStatsResponse struct {
	Profile profilehttp.ProfileResponse `json:"profile"`
	RecordResponse
	Events []string `json:"events"`
}

type EventPlayerStatsResponse struct {
	Profile          profilehttp.ProfileResponse `json:"profile"`
	InvitationStatus string                      `json:"invitation_status"`
	RecordResponse
}

type EventSummaryResponse struct {
	TotalInvited     int `json:"total_invited"`
	TotalAccepted    int `json:"total_accepted"`
	TotalMatches     int `json:"total_matches"`
	CompletedMatches int `json:"completed_matches"`
}

type EventReportResponse struct {
	Event       eventhttp.EventResponse    `json:"event"`
	PlayerStats []EventPlayerStatsResponse `json:"player_stats"`
	Summary     EventSummaryResponse       `json:"summary"`
}

func newRecordResponse(r report.Record) RecordResponse {
	return RecordResponse{
		TotalMatches: r.TotalMatches,
		Wins:         r.Wins,
		Losses:       r.Losses,
		WinRate:      r.WinRate,
	}
}

func NewPlayerStatsListResponse(stats []*report.PlayerStats) []PlayerStatsResponse {
	items := make([]PlayerStatsResponse, len(stats))
	for i, s := range stats {
		events := s.Events
		if events == nil {
			events = []string{}
		}
		items[i] = PlayerStatsResponse{
			Profile:        profilehttp.NewProfileResponse(s.Profile),
			RecordResponse: newRecordResponse(s.Record),
			Events:         events,
		}
	}
	return items
}

func NewEventReportResponse(r *report.EventReport) EventReportResponse {
	rows := make([]EventPlayerStatsResponse, len(r.PlayerStats))
	for i, s := range r.PlayerStats {
		rows[i] = EventPlayerStatsResponse{
			Profile:          profilehttp.NewProfileResponse(s.Profile),
			InvitationStatus: string(s.InvitationStatus),
			RecordResponse:   newRecordResponse(s.Record),
		}
	}

	return EventReportResponse{
		Event:       eventhttp.NewEventResponse(r.Event),
		PlayerStats: rows,
		Summary: EventSummaryResponse{
			TotalInvited:     r.Summary.TotalInvited,
			TotalAccepted:    r.Summary.TotalAccepted,
			TotalMatches:     r.Summary.TotalMatches,
			CompletedMatches: r.Summary.CompletedMatches,
		},
	}
}
