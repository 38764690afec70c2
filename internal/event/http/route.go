package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers event and invitation routes on an authenticated group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	events := g.Group("/events")
	{
		events.POST("", h.Create)
		events.GET("/organized", h.ListOrganized)
		events.GET("/assigned", h.ListAssigned)
		events.GET("/:id", h.Get)
		events.POST("/:id/courts", h.AddCourt)
		events.POST("/:id/invitations", h.InvitePlayer)
		events.POST("/:id/start-inviting", h.StartInviting)
	}

	invitations := g.Group("/invitations")
	{
		invitations.GET("/mine", h.ListMyInvitations)
		invitations.POST("/:id/respond", h.Respond)
	}
}
