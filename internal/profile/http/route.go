package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers profile and player-directory routes on an authenticated group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/me", h.Me)

	profiles := g.Group("/profiles")
	{
		profiles.POST("", h.Create)
		profiles.GET("", h.List)
		profiles.POST("/backfill-skill-level", h.BackfillSkillLevel)
	}

	users := g.Group("/users")
	{
		users.PUT("/:user_id/role", h.AssignRole)
		users.POST("/:user_id/toggle-active", h.ToggleActive)
	}

	g.GET("/players", h.ListPlayers)
	g.GET("/matchmakers", h.ListMatchmakers)
}
