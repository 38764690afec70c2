package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/request"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
)

type Handler struct {
	service match.Service
}

func NewHandler(service match.Service) *Handler {
	return &Handler{service: service}
}

// Create schedules a match on a court of a confirmed event.
// Access Control: admin or matchmaker.
func (h *Handler) Create(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), match.CreateInput{
		EventID:     req.EventID,
		CourtID:     req.CourtID,
		MatchNumber: req.MatchNumber,
		PlayerIDs:   req.PlayerIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMatchResponse(m))
}

// ListByEvent returns the matches of an event with courts and players.
func (h *Handler) ListByEvent(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	details, err := h.service.ListByEvent(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewMatchDetailsListResponse(details)))
}

// RecordScore stores the result of a match.
// Access Control: admin or matchmaker.
func (h *Handler) RecordScore(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	m, err := h.service.RecordScore(c.Request.Context(), auth.GetUserID(c), uri.ID, match.ScoreInput{
		Scores:   req.toScores(),
		WinnerID: req.WinnerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMatchResponse(m))
}

func (h *Handler) ListMine(c *gin.Context) {
	details, err := h.service.ListMine(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewMatchDetailsListResponse(details)))
}
