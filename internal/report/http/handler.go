package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/request"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
	"github.com/nekogravitycat/tennis-league-backend/internal/report"
)

type Handler struct {
	service report.Service
}

func NewHandler(service report.Service) *Handler {
	return &Handler{service: service}
}

// Players returns league-wide participation of every player with at least one completed match.
// Access Control: admin or organizer.
func (h *Handler) Players(c *gin.Context) {
	stats, err := h.service.PlayerParticipation(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewPlayerStatsListResponse(stats)))
}

// Event returns participation of the invited players of one event.
// Access Control: admin, organizer or matchmaker.
func (h *Handler) Event(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	r, err := h.service.EventParticipation(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventReportResponse(r))
}
