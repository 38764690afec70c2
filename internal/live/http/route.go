package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the websocket feed on an authenticated group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/events/:id/live", h.Stream)
}
