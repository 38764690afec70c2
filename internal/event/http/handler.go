package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/request"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
)

type Handler struct {
	service     event.Service
	invitations event.InvitationService
}

func NewHandler(service event.Service, invitations event.InvitationService) *Handler {
	return &Handler{
		service:     service,
		invitations: invitations,
	}
}

// Create schedules a new event in setup.
// Access Control: admin or organizer.
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	e, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), event.CreateInput{
		Name:            req.Name,
		Date:            req.Date,
		Location:        req.Location,
		StartTime:       req.StartTime,
		CourtsReserved:  req.CourtsReserved,
		MatchesPerCourt: req.MatchesPerCourt,
		MatchmakerID:    req.MatchmakerID,
		InviteDeadline:  req.InviteDeadline,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewEventResponse(e))
}

// ListOrganized returns the caller's events with invitation statistics.
func (h *Handler) ListOrganized(c *gin.Context) {
	events, err := h.service.ListByOrganizer(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventWithStatsResponse, len(events))
	for i, e := range events {
		items[i] = NewEventWithStatsResponse(e)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

// ListAssigned returns the events the caller matchmakes.
func (h *Handler) ListAssigned(c *gin.Context) {
	events, err := h.service.ListByMatchmaker(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewEventListResponse(events)))
}

// Get returns an event with its courts and invitations.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	d, err := h.service.GetDetails(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventDetailsResponse(d))
}

func (h *Handler) AddCourt(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req AddCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	court, err := h.service.AddCourt(c.Request.Context(), auth.GetUserID(c), uri.ID, event.AddCourtInput{
		CourtNumber: req.CourtNumber,
		Label:       req.Label,
		SurfaceType: event.Surface(req.SurfaceType),
		Capacity:    req.Capacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCourtResponse(court))
}

func (h *Handler) InvitePlayer(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req InvitePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	inv, err := h.service.InvitePlayer(c.Request.Context(), auth.GetUserID(c), uri.ID, req.PlayerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewInvitationResponse(inv))
}

func (h *Handler) StartInviting(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	e, err := h.service.StartInviting(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventResponse(e))
}

// ListMyInvitations returns the caller's invitations with their events.
func (h *Handler) ListMyInvitations(c *gin.Context) {
	invitations, err := h.invitations.ListMine(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]InvitationWithEventResponse, len(invitations))
	for i, inv := range invitations {
		items[i] = NewInvitationWithEventResponse(inv)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

// Respond accepts or declines one of the caller's invitations.
func (h *Handler) Respond(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	inv, err := h.invitations.Respond(c.Request.Context(), auth.GetUserID(c), uri.ID, event.InvitationStatus(req.Response))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewInvitationResponse(inv))
}
