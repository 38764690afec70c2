package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers report routes on an authenticated group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/reports/players", h.Players)
	g.GET("/events/:id/report", h.Event)
}
