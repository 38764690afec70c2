package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers match routes on an authenticated group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/events/:id/matches", h.ListByEvent)

	matches := g.Group("/matches")
	{
		matches.POST("", h.Create)
		matches.GET("/mine", h.ListMine)
		matches.POST("/:id/score", h.RecordScore)
	}
}
