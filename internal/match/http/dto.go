package http

import (
	"time"

	eventhttp "github.com/nekogravitycat/tennis-league-backend/internal/event/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	profilehttp "github.com/nekogravitycat/tennis-league-backend/internal/profile/http"
)

// CreateMatchRequest is the payload for POST /matches.
type CreateMatchRequest struct {
	EventID     string   `json:"event_id" binding:"required,uuid"`
	CourtID     string   `json:"court_id" binding:"required,uuid"`
	MatchNumber int      `json:"match_number" binding:"required,min=1"`
	PlayerIDs   []string `json:"player_ids" binding:"required,min=1,dive,uuid"`
}

type ScoreRequest struct {
	Set          int `json:"set" binding:"min=1"`
	Player1Score int `json:"player1_score" binding:"min=0"`
	Player2Score int `json:"player2_score" binding:"min=0"`
}

// RecordScoreRequest is the payload for POST /matches/:id/score.
type RecordScoreRequest struct {
	Scores   []ScoreRequest `json:"scores" binding:"dive"`
	WinnerID string         `json:"winner_id" binding:"required,uuid"`
}

type ScoreResponse struct {
	Set          int `json:"set"`
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type MatchResponse struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	CourtID     string          `json:"court_id"`
	MatchNumber int             `json:"match_number"`
	PlayerIDs   []string        `json:"player_ids"`
	Status      string          `json:"status"`
	Scores      []ScoreResponse `json:"scores,omitempty"`
	WinnerID    *string         `json:"winner_id,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type MatchDetailsResponse struct {
	MatchResponse
	Event   *eventhttp.EventResponse      `json:"event,omitempty"`
	Court   *eventhttp.CourtResponse      `json:"court,omitempty"`
	Players []profilehttp.ProfileResponse `json:"players"`
}

func (r RecordScoreRequest) toScores() []match.Score {
	scores := make([]match.Score, len(r.Scores))
	for i, s := range r.Scores {
		scores[i] = match.Score{Set: s.Set, Player1Score: s.Player1Score, Player2Score: s.Player2Score}
	}
	return scores
}

func NewMatchResponse(m *match.Match) MatchResponse {
	resp := MatchResponse{
		ID:          m.ID,
		EventID:     m.EventID,
		CourtID:     m.CourtID,
		MatchNumber: m.MatchNumber,
		PlayerIDs:   m.PlayerIDs,
		Status:      string(m.Status),
		WinnerID:    m.WinnerID,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
	}
	for _, s := range m.Scores {
		resp.Scores = append(resp.Scores, ScoreResponse{Set: s.Set, Player1Score: s.Player1Score, Player2Score: s.Player2Score})
	}
	return resp
}

func NewMatchDetailsResponse(d *match.Details) MatchDetailsResponse {
	resp := MatchDetailsResponse{
		MatchResponse: NewMatchResponse(d.Match),
		Players:       profilehttp.NewProfileListResponse(d.Players),
	}
	if d.Event != nil {
		e := eventhttp.NewEventResponse(d.Event)
		resp.Event = &e
	}
	if d.Court != nil {
		c := eventhttp.NewCourtResponse(d.Court)
		resp.Court = &c
	}
	return resp
}

func NewMatchDetailsListResponse(details []*match.Details) []MatchDetailsResponse {
	items := make([]MatchDetailsResponse, len(details))
	for i, d := range details {
		items[i] = NewMatchDetailsResponse(d)
	}
	return items
}
